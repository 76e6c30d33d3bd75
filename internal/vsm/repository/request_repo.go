package repository

import (
	"context"
	"time"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"gorm.io/gorm"
)

// RequestRepository service request repository
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) WithTx(tx *gorm.DB) *RequestRepository {
	return &RequestRepository{db: tx}
}

func (r *RequestRepository) Create(ctx context.Context, req *entity.ServiceRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// FindByID loads the request with vehicle and owning customer
func (r *RequestRepository) FindByID(ctx context.Context, id uint) (*entity.ServiceRequest, error) {
	var req entity.ServiceRequest
	err := r.db.WithContext(ctx).
		Preload("Vehicle.Customer").
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &req, nil
}

// FindForUpdate loads and locks the request row, then attaches vehicle and customer
func (r *RequestRepository) FindForUpdate(ctx context.Context, id uint) (*entity.ServiceRequest, error) {
	var req entity.ServiceRequest
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, notFound(err)
	}
	var vehicle entity.Vehicle
	err := r.db.WithContext(ctx).Preload("Customer").Where("id = ?", req.VehicleID).First(&vehicle).Error
	if err == nil {
		req.Vehicle = &vehicle
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return &req, nil
}

// UpdateGuarded writes fields only if the row still has req.Version, then bumps the version.
func (r *RequestRepository) UpdateGuarded(ctx context.Context, req *entity.ServiceRequest, fields map[string]interface{}) error {
	now := time.Now()
	fields["version"] = req.Version + 1
	fields["updated_at"] = now

	res := r.db.WithContext(ctx).Model(&entity.ServiceRequest{}).
		Where("id = ? AND version = ?", req.ID, req.Version).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	req.Version++
	req.UpdatedAt = now
	return nil
}

// ActiveJobCounts active job count per technician id
func (r *RequestRepository) ActiveJobCounts(ctx context.Context) (map[string]int, error) {
	type row struct {
		TechnicianID string
		Jobs         int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&entity.ServiceRequest{}).
		Select("technician_id, COUNT(*) AS jobs").
		Where("technician_id IS NOT NULL AND status IN ?", entity.ActiveStatuses).
		Group("technician_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.TechnicianID] = r.Jobs
	}
	return counts, nil
}

// ListByStatuses requests in any of statuses, oldest first
func (r *RequestRepository) ListByStatuses(ctx context.Context, statuses ...entity.Status) ([]entity.ServiceRequest, error) {
	var items []entity.ServiceRequest
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("status IN ?", statuses).
		Order("request_date ASC").
		Find(&items).Error
	return items, err
}

// ListForTechnician jobs assigned to technicianID in any of statuses
func (r *RequestRepository) ListForTechnician(ctx context.Context, technicianID string, statuses ...entity.Status) ([]entity.ServiceRequest, error) {
	var items []entity.ServiceRequest
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("technician_id = ? AND status IN ?", technicianID, statuses).
		Order("request_date ASC").
		Find(&items).Error
	return items, err
}

// ListForCustomer all requests on the customer's vehicles, newest first
func (r *RequestRepository) ListForCustomer(ctx context.Context, customerID uint) ([]entity.ServiceRequest, error) {
	var items []entity.ServiceRequest
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Joins("JOIN vsm_vehicles v ON v.id = vsm_service_requests.vehicle_id").
		Where("v.customer_id = ?", customerID).
		Order("vsm_service_requests.request_date DESC").
		Find(&items).Error
	return items, err
}

// CountForCustomerExcluding counts the customer's requests whose status is not in excluded
func (r *RequestRepository) CountForCustomerExcluding(ctx context.Context, customerID uint, excluded ...entity.Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.ServiceRequest{}).
		Joins("JOIN vsm_vehicles v ON v.id = vsm_service_requests.vehicle_id").
		Where("v.customer_id = ? AND vsm_service_requests.status NOT IN ?", customerID, excluded).
		Count(&n).Error
	return n, err
}

func (r *RequestRepository) CountByStatus(ctx context.Context, status entity.Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.ServiceRequest{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// CountClosedSince counts jobs finished (Completed or Closed) and touched since t
func (r *RequestRepository) CountClosedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.ServiceRequest{}).
		Where("status IN ? AND updated_at >= ?", []entity.Status{entity.StatusCompleted, entity.StatusClosed}, since).
		Count(&n).Error
	return n, err
}

// ReportFilter common report filters; zero values are ignored
type ReportFilter struct {
	From         *time.Time
	To           *time.Time
	Category     string
	TechnicianID string
	Priority     string
}

// ListForReport requests matching the filter on request date
func (r *RequestRepository) ListForReport(ctx context.Context, f ReportFilter) ([]entity.ServiceRequest, error) {
	query := r.db.WithContext(ctx).Model(&entity.ServiceRequest{})
	if f.From != nil {
		query = query.Where("request_date >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("request_date <= ?", *f.To)
	}
	if f.Category != "" {
		query = query.Where("service_type = ?", f.Category)
	}
	if f.TechnicianID != "" {
		query = query.Where("technician_id = ?", f.TechnicianID)
	}
	if f.Priority != "" {
		query = query.Where("priority = ?", f.Priority)
	}
	var items []entity.ServiceRequest
	err := query.Order("request_date ASC").Find(&items).Error
	return items, err
}
