package repository

import (
	"context"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"gorm.io/gorm"
)

// PartRepository spare part, usage and stock ledger repository
type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

func (r *PartRepository) WithTx(tx *gorm.DB) *PartRepository {
	return &PartRepository{db: tx}
}

// --- Part ---

func (r *PartRepository) Create(ctx context.Context, p *entity.Part) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PartRepository) FindByID(ctx context.Context, id uint) (*entity.Part, error) {
	var p entity.Part
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindForUpdate loads and locks a part row before a stock change
func (r *PartRepository) FindForUpdate(ctx context.Context, id uint) (*entity.Part, error) {
	var p entity.Part
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// List parts, optionally filtered by a name substring
func (r *PartRepository) List(ctx context.Context, keyword string) ([]entity.Part, error) {
	query := r.db.WithContext(ctx).Model(&entity.Part{})
	if keyword != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+keyword+"%")
	}
	var parts []entity.Part
	err := query.Order("name ASC").Find(&parts).Error
	return parts, err
}

// ListLowStock parts below threshold, lowest first
func (r *PartRepository) ListLowStock(ctx context.Context, threshold int) ([]entity.Part, error) {
	var parts []entity.Part
	err := r.db.WithContext(ctx).
		Where("stock_quantity < ?", threshold).
		Order("stock_quantity ASC, name ASC").
		Find(&parts).Error
	return parts, err
}

func (r *PartRepository) Update(ctx context.Context, p *entity.Part) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PartRepository) SetStock(ctx context.Context, id uint, qty int) error {
	return r.db.WithContext(ctx).Model(&entity.Part{}).Where("id = ?", id).Update("stock_quantity", qty).Error
}

func (r *PartRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Part{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUsages how many usage rows reference the part
func (r *PartRepository) CountUsages(ctx context.Context, partID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.PartUsage{}).Where("part_id = ?", partID).Count(&n).Error
	return n, err
}

// --- PartUsage ---

func (r *PartRepository) CreateUsage(ctx context.Context, u *entity.PartUsage) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// ListUsages usages of a request with part preloaded, in recording order
func (r *PartRepository) ListUsages(ctx context.Context, requestID uint) ([]entity.PartUsage, error) {
	var usages []entity.PartUsage
	err := r.db.WithContext(ctx).
		Preload("Part").
		Where("service_request_id = ?", requestID).
		Order("id ASC").
		Find(&usages).Error
	return usages, err
}

// ListUsagesForRequests usages across many requests, for reports
func (r *PartRepository) ListUsagesForRequests(ctx context.Context, requestIDs []uint) ([]entity.PartUsage, error) {
	var usages []entity.PartUsage
	if len(requestIDs) == 0 {
		return usages, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Part").
		Where("service_request_id IN ?", requestIDs).
		Order("id ASC").
		Find(&usages).Error
	return usages, err
}

// --- StockMovement ---

func (r *PartRepository) CreateMovement(ctx context.Context, m *entity.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListMovements ledger of one part, newest first
func (r *PartRepository) ListMovements(ctx context.Context, partID uint) ([]entity.StockMovement, error) {
	var items []entity.StockMovement
	err := r.db.WithContext(ctx).
		Where("part_id = ?", partID).
		Order("id DESC").
		Find(&items).Error
	return items, err
}
