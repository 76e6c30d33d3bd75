package repository

import (
	"context"
	"time"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"gorm.io/gorm"
)

// BillRepository bill repository
type BillRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) *BillRepository {
	return &BillRepository{db: db}
}

func (r *BillRepository) WithTx(tx *gorm.DB) *BillRepository {
	return &BillRepository{db: tx}
}

func (r *BillRepository) Create(ctx context.Context, b *entity.Bill) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BillRepository) FindByRequestID(ctx context.Context, requestID uint) (*entity.Bill, error) {
	var b entity.Bill
	if err := r.db.WithContext(ctx).Where("service_request_id = ?", requestID).First(&b).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// FindByID loads the bill with request, vehicle and customer
func (r *BillRepository) FindByID(ctx context.Context, id uint) (*entity.Bill, error) {
	var b entity.Bill
	err := r.db.WithContext(ctx).
		Preload("ServiceRequest.Vehicle.Customer").
		Where("id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// FindForUpdate loads and locks a bill row
func (r *BillRepository) FindForUpdate(ctx context.Context, id uint) (*entity.Bill, error) {
	var b entity.Bill
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// MarkPaid flips a Pending bill to Paid; returns false when it was already paid.
func (r *BillRepository) MarkPaid(ctx context.Context, id uint, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Where("id = ? AND payment_status = ?", id, entity.PaymentPending).
		Updates(map[string]interface{}{
			"payment_status": entity.PaymentPaid,
			"paid_at":        paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListForCustomer bills on the customer's vehicles, newest first
func (r *BillRepository) ListForCustomer(ctx context.Context, customerID uint) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).
		Preload("ServiceRequest.Vehicle").
		Joins("JOIN vsm_service_requests sr ON sr.id = vsm_bills.service_request_id").
		Joins("JOIN vsm_vehicles v ON v.id = sr.vehicle_id").
		Where("v.customer_id = ?", customerID).
		Order("vsm_bills.generated_at DESC").
		Find(&bills).Error
	return bills, err
}

func (r *BillRepository) CountPendingForCustomer(ctx context.Context, customerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Joins("JOIN vsm_service_requests sr ON sr.id = vsm_bills.service_request_id").
		Joins("JOIN vsm_vehicles v ON v.id = sr.vehicle_id").
		Where("v.customer_id = ? AND vsm_bills.payment_status = ?", customerID, entity.PaymentPending).
		Count(&n).Error
	return n, err
}

// ListGeneratedBetween bills generated in [from, to]; nil bounds are open
func (r *BillRepository) ListGeneratedBetween(ctx context.Context, from, to *time.Time) ([]entity.Bill, error) {
	query := r.db.WithContext(ctx).Preload("ServiceRequest")
	if from != nil {
		query = query.Where("generated_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("generated_at <= ?", *to)
	}
	var bills []entity.Bill
	err := query.Order("generated_at ASC").Find(&bills).Error
	return bills, err
}
