package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/service"
)

// ServiceHandler customer-facing service request endpoints
type ServiceHandler struct {
	svc *service.WorkflowService
}

func NewServiceHandler(svc *service.WorkflowService) *ServiceHandler {
	return &ServiceHandler{svc: svc}
}

// Book POST /services/book
func (h *ServiceHandler) Book(c *gin.Context) {
	var req service.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	sr, err := h.svc.Book(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, sr)
}

// MyHistory GET /services/history
func (h *ServiceHandler) MyHistory(c *gin.Context) {
	items, err := h.svc.CustomerHistory(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Stats GET /services/stats
func (h *ServiceHandler) Stats(c *gin.Context) {
	stats, err := h.svc.CustomerStats(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, stats)
}

// Cancel PUT /services/cancel/:id
func (h *ServiceHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), id, GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"message": "Service Cancelled Successfully"})
}

type rescheduleRequest struct {
	NewDate time.Time `json:"new_date" binding:"required"`
}

// Reschedule PUT /services/reschedule/:id
func (h *ServiceHandler) Reschedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	sr, err := h.svc.Reschedule(c.Request.Context(), id, GetUserID(c), req.NewDate)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"message": "Service Rescheduled Successfully", "new_date": sr.RequestDate})
}

// RequestHistory GET /services/:id/history
func (h *ServiceHandler) RequestHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rows, err := h.svc.History(c.Request.Context(), id, GetUserID(c), GetRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": rows})
}
