package repository

import (
	"context"
	"time"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"gorm.io/gorm"
)

// HistoryRepository status history repository
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) WithTx(tx *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: tx}
}

// Record appends one transition row. Empty actor is stored as "Unknown".
func (r *HistoryRepository) Record(ctx context.Context, requestID uint, from, to entity.Status, actor string) error {
	if actor == "" {
		actor = entity.ActorUnknown
	}
	h := &entity.ServiceStatusHistory{
		ServiceRequestID: requestID,
		OldStatus:        from,
		NewStatus:        to,
		ChangedBy:        actor,
		ChangedAt:        time.Now(),
	}
	return r.db.WithContext(ctx).Create(h).Error
}

// ListByRequest newest first
func (r *HistoryRepository) ListByRequest(ctx context.Context, requestID uint) ([]entity.ServiceStatusHistory, error) {
	var items []entity.ServiceStatusHistory
	err := r.db.WithContext(ctx).
		Where("service_request_id = ?", requestID).
		Order("changed_at DESC, id DESC").
		Find(&items).Error
	return items, err
}
