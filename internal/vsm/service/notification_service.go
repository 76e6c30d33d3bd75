package service

import (
	"context"
	"errors"
	"time"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/shared/pushgw"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/sse"
	"go.uber.org/zap"
)

// Notifier delivers a message to a user. Delivery failures never surface to the caller.
type Notifier interface {
	Notify(ctx context.Context, userID, message string)
}

// NotificationService stores notifications and pushes them live
type NotificationService struct {
	repo   *repository.NotificationRepository
	hub    *sse.Hub
	push   *pushgw.Client
	logger *zap.Logger
}

func NewNotificationService(repo *repository.NotificationRepository, hub *sse.Hub, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, hub: hub, logger: logger.Named("notify")}
}

// SetPushClient enables the external push gateway
func (s *NotificationService) SetPushClient(c *pushgw.Client) {
	s.push = c
}

// Notify persists the message, pushes it over SSE and, if configured, the gateway.
func (s *NotificationService) Notify(ctx context.Context, userID, message string) {
	if userID == "" {
		s.logger.Warn("notification without recipient dropped", zap.String("message", message))
		return
	}
	n := &entity.Notification{UserID: userID, Message: message, CreatedAt: time.Now()}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("store notification failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if s.hub != nil {
		s.hub.PublishNotification(userID, n.ID, message)
	}
	if s.push != nil {
		go func() {
			pctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if _, err := s.push.SendMessage(pctx, pushgw.Message{UserID: userID, Text: message}); err != nil {
				s.logger.Warn("push gateway send failed", zap.String("user_id", userID), zap.Error(err))
			}
		}()
	}
}

// ListMine newest first
func (s *NotificationService) ListMine(ctx context.Context, userID string, unreadOnly bool) ([]entity.Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, 100)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead marks a notification read; only its owner may do so.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, id uint) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundf("Notification not found")
		}
		return err
	}
	if n.UserID != userID {
		return forbidden("You cannot modify this notification")
	}
	if n.IsRead {
		return nil
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}
