package service

import (
	"context"
	"fmt"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartService spare part inventory
type PartService struct {
	db                *gorm.DB
	repo              *repository.PartRepository
	lowStockThreshold int
}

func NewPartService(db *gorm.DB, repo *repository.PartRepository, lowStockThreshold int) *PartService {
	return &PartService{db: db, repo: repo, lowStockThreshold: lowStockThreshold}
}

func (s *PartService) List(ctx context.Context, keyword string) ([]entity.Part, error) {
	return s.repo.List(ctx, keyword)
}

func (s *PartService) Get(ctx context.Context, id uint) (*entity.Part, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, fmt.Sprintf("Part %d not found", id))
	}
	return p, nil
}

// PartRequest create/update body
type PartRequest struct {
	Name          string          `json:"name" binding:"required,max=120"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Notes         string          `json:"notes"`
}

func (s *PartService) Create(ctx context.Context, userID string, req *PartRequest) (*entity.Part, error) {
	if req.Price.IsNegative() {
		return nil, unprocessablef("Price cannot be negative")
	}
	if req.StockQuantity < 0 {
		return nil, unprocessablef("Stock quantity cannot be negative")
	}
	p := &entity.Part{
		Name:          req.Name,
		Price:         req.Price.Round(2),
		StockQuantity: req.StockQuantity,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create part: %w", err)
		}
		if p.StockQuantity == 0 {
			return nil
		}
		return repo.CreateMovement(ctx, &entity.StockMovement{
			PartID:    p.ID,
			Delta:     p.StockQuantity,
			Balance:   p.StockQuantity,
			Reason:    entity.MovementAdjust,
			Notes:     "initial stock",
			CreatedBy: userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update edits a part; a stock change is written to the ledger as an adjustment.
func (s *PartService) Update(ctx context.Context, userID string, id uint, req *PartRequest) (*entity.Part, error) {
	if req.Price.IsNegative() {
		return nil, unprocessablef("Price cannot be negative")
	}
	if req.StockQuantity < 0 {
		return nil, unprocessablef("Stock quantity cannot be negative")
	}
	var out *entity.Part
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		p, err := repo.FindForUpdate(ctx, id)
		if err != nil {
			return lookup(err, fmt.Sprintf("Part %d not found", id))
		}
		delta := req.StockQuantity - p.StockQuantity
		p.Name = req.Name
		p.Price = req.Price.Round(2)
		p.StockQuantity = req.StockQuantity
		if err := repo.Update(ctx, p); err != nil {
			return err
		}
		out = p
		if delta == 0 {
			return nil
		}
		return repo.CreateMovement(ctx, &entity.StockMovement{
			PartID:    p.ID,
			Delta:     delta,
			Balance:   p.StockQuantity,
			Reason:    entity.MovementAdjust,
			Notes:     req.Notes,
			CreatedBy: userID,
		})
	})
	return out, err
}

// Delete removes a part that no job has used. The part row is locked so a
// concurrent UseParts cannot record a usage in between.
func (s *PartService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindForUpdate(ctx, id); err != nil {
			return lookup(err, fmt.Sprintf("Part %d not found", id))
		}
		n, err := repo.CountUsages(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return conflictf("Part %d is used by service requests and cannot be deleted", id)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return lookup(err, fmt.Sprintf("Part %d not found", id))
		}
		return nil
	})
}

// LowStock parts below the configured threshold
func (s *PartService) LowStock(ctx context.Context) ([]entity.Part, error) {
	return s.repo.ListLowStock(ctx, s.lowStockThreshold)
}

func (s *PartService) Movements(ctx context.Context, id uint) ([]entity.StockMovement, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListMovements(ctx, id)
}
