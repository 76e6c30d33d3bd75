package repository

import (
	"context"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"gorm.io/gorm"
)

// UserRepository user repository
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FindTechnicianForUpdate loads a technician and locks the row
func (r *UserRepository) FindTechnicianForUpdate(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	err := forUpdate(r.db.WithContext(ctx)).
		Where("id = ? AND role = ?", id, entity.RoleTechnician).
		First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// ListActiveTechnicians active technicians ordered by name
func (r *UserRepository) ListActiveTechnicians(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", entity.RoleTechnician, true).
		Order("full_name ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) CountActiveByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("role = ? AND is_active = ?", role, true).
		Count(&n).Error
	return n, err
}

// List all users, optionally filtered by role
func (r *UserRepository) List(ctx context.Context, role string) ([]entity.User, error) {
	query := r.db.WithContext(ctx).Model(&entity.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var users []entity.User
	err := query.Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
