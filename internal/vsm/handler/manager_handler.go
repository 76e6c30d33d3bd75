package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/service"
)

// ManagerHandler manager dashboard, assignment and parts inventory
type ManagerHandler struct {
	assignment *service.AssignmentService
	dashboard  *service.DashboardService
	parts      *service.PartService
}

func NewManagerHandler(assignment *service.AssignmentService, dashboard *service.DashboardService, parts *service.PartService) *ManagerHandler {
	return &ManagerHandler{assignment: assignment, dashboard: dashboard, parts: parts}
}

// Stats GET /manager/stats
func (h *ManagerHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.ManagerStats(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, stats)
}

// PendingRequests GET /manager/requests
func (h *ManagerHandler) PendingRequests(c *gin.Context) {
	items, err := h.assignment.PendingRequests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Technicians GET /manager/technicians
func (h *ManagerHandler) Technicians(c *gin.Context) {
	items, err := h.assignment.ActiveTechnicians(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Availability GET /manager/technicians/availability
func (h *ManagerHandler) Availability(c *gin.Context) {
	items, err := h.assignment.TechnicianAvailability(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

type assignRequest struct {
	TechnicianID string `json:"technician_id" binding:"required"`
}

// Assign PUT /manager/assign/:id
func (h *ManagerHandler) Assign(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	sr, err := h.assignment.AssignTechnician(c.Request.Context(), id, req.TechnicianID, GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"message": "Technician assigned successfully", "request": sr})
}

// ListParts GET /manager/parts?keyword=
func (h *ManagerHandler) ListParts(c *gin.Context) {
	items, err := h.parts.List(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// CreatePart POST /manager/parts
func (h *ManagerHandler) CreatePart(c *gin.Context) {
	var req service.PartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	part, err := h.parts.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, part)
}

// UpdatePart PUT /manager/parts/:id
func (h *ManagerHandler) UpdatePart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req service.PartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	part, err := h.parts.Update(c.Request.Context(), GetUserID(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, part)
}

// DeletePart DELETE /manager/parts/:id
func (h *ManagerHandler) DeletePart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.parts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}

// LowStock GET /manager/parts/low-stock
func (h *ManagerHandler) LowStock(c *gin.Context) {
	items, err := h.parts.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// PartMovements GET /manager/parts/:id/movements
func (h *ManagerHandler) PartMovements(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	items, err := h.parts.Movements(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}
