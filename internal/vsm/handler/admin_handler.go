package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/service"
)

// AdminHandler user administration
type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// ListUsers GET /admin/users?role=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	items, err := h.svc.ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// CreateUser POST /admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	user, err := h.svc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, user)
}

// UpdateUser PUT /admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, user)
}

// Deactivate DELETE /admin/users/:id
func (h *AdminHandler) Deactivate(c *gin.Context) {
	if err := h.svc.SetActive(c.Request.Context(), GetUserID(c), c.Param("id"), false); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}

// Activate PUT /admin/users/:id/activate
func (h *AdminHandler) Activate(c *gin.Context) {
	if err := h.svc.SetActive(c.Request.Context(), GetUserID(c), c.Param("id"), true); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}
