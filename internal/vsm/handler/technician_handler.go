package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/service"
)

// TechnicianHandler technician job endpoints
type TechnicianHandler struct {
	svc *service.WorkflowService
}

func NewTechnicianHandler(svc *service.WorkflowService) *TechnicianHandler {
	return &TechnicianHandler{svc: svc}
}

// Tasks GET /technician/tasks
func (h *TechnicianHandler) Tasks(c *gin.Context) {
	items, err := h.svc.TechnicianTasks(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus PUT /technician/services/:id/status
func (h *TechnicianHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	sr, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status, GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"message": "Status updated", "status": sr.Status, "request": sr})
}

type usePartsRequest struct {
	Parts []service.PartLine `json:"parts" binding:"required,min=1,dive"`
}

// UseParts POST /technician/services/:id/parts
func (h *TechnicianHandler) UseParts(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req usePartsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := h.svc.UseParts(c.Request.Context(), id, GetUserID(c), req.Parts); err != nil {
		respondError(c, err)
		return
	}
	Created(c, gin.H{"message": "Parts recorded"})
}

// UsedParts GET /technician/services/:id/parts
func (h *TechnicianHandler) UsedParts(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	items, err := h.svc.UsedParts(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}
