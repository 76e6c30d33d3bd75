package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/shopspring/decimal"
)

// CategoryService service category master data
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context) ([]entity.ServiceCategory, error) {
	return s.repo.List(ctx)
}

// CategoryRequest create/update body
type CategoryRequest struct {
	Name           string          `json:"name" binding:"required,max=100"`
	Description    string          `json:"description" binding:"max=200"`
	LabourCharge   decimal.Decimal `json:"labour_charge"`
	EstimatedHours int             `json:"estimated_hours" binding:"min=0"`
}

func (s *CategoryService) validate(req *CategoryRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return unprocessablef("Category name is required")
	}
	if req.LabourCharge.IsNegative() {
		return unprocessablef("Labour charge cannot be negative")
	}
	return nil
}

func (s *CategoryService) Create(ctx context.Context, userID string, req *CategoryRequest) (*entity.ServiceCategory, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, conflictf("Category '%s' already exists", name)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	c := &entity.ServiceCategory{
		Name:           name,
		Description:    req.Description,
		LabourCharge:   req.LabourCharge.Round(2),
		EstimatedHours: req.EstimatedHours,
		CreatedBy:      userID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, req *CategoryRequest) (*entity.ServiceCategory, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Category not found")
	}
	name := strings.TrimSpace(req.Name)
	if other, err := s.repo.FindByName(ctx, name); err == nil && other.ID != c.ID {
		return nil, conflictf("Category '%s' already exists", name)
	}
	c.Name = name
	c.Description = req.Description
	c.LabourCharge = req.LabourCharge.Round(2)
	c.EstimatedHours = req.EstimatedHours
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookup(err, "Category not found")
	}
	return nil
}
