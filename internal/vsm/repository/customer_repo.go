package repository

import (
	"context"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"gorm.io/gorm"
)

// CustomerRepository customer profile and vehicle repository
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) WithTx(tx *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: tx}
}

// --- Customer ---

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CustomerRepository) FindByUserID(ctx context.Context, userID string) (*entity.Customer, error) {
	var c entity.Customer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// --- Vehicle ---

func (r *CustomerRepository) CreateVehicle(ctx context.Context, v *entity.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *CustomerRepository) ListVehicles(ctx context.Context, customerID uint) ([]entity.Vehicle, error) {
	var vehicles []entity.Vehicle
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id ASC").Find(&vehicles).Error
	return vehicles, err
}

// FindVehicleOfCustomer returns the vehicle only if customerID owns it
func (r *CustomerRepository) FindVehicleOfCustomer(ctx context.Context, vehicleID, customerID uint) (*entity.Vehicle, error) {
	var v entity.Vehicle
	err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", vehicleID, customerID).
		First(&v).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

func (r *CustomerRepository) CountVehicles(ctx context.Context, customerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Vehicle{}).Where("customer_id = ?", customerID).Count(&n).Error
	return n, err
}
