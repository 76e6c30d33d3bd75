package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/service"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// My GET /notifications/my?unread=true
func (h *NotificationHandler) My(c *gin.Context) {
	items, err := h.svc.ListMine(c.Request.Context(), GetUserID(c), c.Query("unread") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// UnreadCount GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.svc.UnreadCount(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"count": n})
}

// MarkRead PUT /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}

// MarkAllRead PUT /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.svc.MarkAllRead(c.Request.Context(), GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}
