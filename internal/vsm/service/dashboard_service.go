package service

import (
	"context"
	"time"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/shopspring/decimal"
)

// DashboardService manager dashboard
type DashboardService struct {
	repos *repository.Repositories
}

func NewDashboardService(repos *repository.Repositories) *DashboardService {
	return &DashboardService{repos: repos}
}

// ManagerStats dashboard counters for the current month
type ManagerStats struct {
	NewRequests       int64           `json:"new_requests"`
	ActiveTechnicians int64           `json:"active_technicians"`
	ClosedThisMonth   int64           `json:"closed_this_month"`
	RevenueThisMonth  decimal.Decimal `json:"revenue_this_month"`
}

// ManagerStats counts relative to now
func (s *DashboardService) ManagerStats(ctx context.Context, now time.Time) (*ManagerStats, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &ManagerStats{RevenueThisMonth: decimal.Zero}
	var err error
	if stats.NewRequests, err = s.repos.Request.CountByStatus(ctx, entity.StatusRequested); err != nil {
		return nil, err
	}
	if stats.ActiveTechnicians, err = s.repos.User.CountActiveByRole(ctx, entity.RoleTechnician); err != nil {
		return nil, err
	}
	if stats.ClosedThisMonth, err = s.repos.Request.CountClosedSince(ctx, monthStart); err != nil {
		return nil, err
	}
	bills, err := s.repos.Bill.ListGeneratedBetween(ctx, &monthStart, nil)
	if err != nil {
		return nil, err
	}
	for _, b := range bills {
		stats.RevenueThisMonth = stats.RevenueThisMonth.Add(b.TotalAmount)
	}
	return stats, nil
}
