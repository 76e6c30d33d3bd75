package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/service"
)

// CustomerHandler customer profile and vehicles
type CustomerHandler struct {
	svc *service.CustomerService
}

func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// Profile GET /customers/profile
func (h *CustomerHandler) Profile(c *gin.Context) {
	cust, err := h.svc.Profile(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, cust)
}

// AddVehicle POST /vehicles
func (h *CustomerHandler) AddVehicle(c *gin.Context) {
	var req service.AddVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	v, err := h.svc.AddVehicle(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, v)
}

// ListVehicles GET /vehicles
func (h *CustomerHandler) ListVehicles(c *gin.Context) {
	items, err := h.svc.MyVehicles(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}
