package repository

import (
	"context"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"gorm.io/gorm"
)

// CategoryRepository service category repository
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

func (r *CategoryRepository) List(ctx context.Context) ([]entity.ServiceCategory, error) {
	var items []entity.ServiceCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.ServiceCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*entity.ServiceCategory, error) {
	var c entity.ServiceCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindByName exact, case-sensitive name match
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*entity.ServiceCategory, error) {
	var c entity.ServiceCategory
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *entity.ServiceCategory) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.ServiceCategory{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
