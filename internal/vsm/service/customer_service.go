package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
)

// CustomerService customer profile and vehicles
type CustomerService struct {
	repos *repository.Repositories
}

func NewCustomerService(repos *repository.Repositories) *CustomerService {
	return &CustomerService{repos: repos}
}

func (s *CustomerService) Profile(ctx context.Context, userID string) (*entity.Customer, error) {
	cust, err := s.repos.Customer.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("Customer profile not found")
		}
		return nil, err
	}
	return cust, nil
}

// AddVehicleRequest new vehicle
type AddVehicleRequest struct {
	RegistrationNumber string `json:"registration_number" binding:"required"`
	Brand              string `json:"brand" binding:"required"`
	Model              string `json:"model" binding:"required"`
	Year               int    `json:"year" binding:"required,min=1900,max=2100"`
	VehicleType        string `json:"vehicle_type" binding:"required"`
}

// AddVehicle registers a vehicle; the stored model reads "<brand> <model> (<year>)".
func (s *CustomerService) AddVehicle(ctx context.Context, userID string, req *AddVehicleRequest) (*entity.Vehicle, error) {
	cust, err := s.repos.Customer.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unprocessablef(msgNoCustomerProfile)
		}
		return nil, err
	}
	v := &entity.Vehicle{
		RegistrationNumber: strings.ToUpper(strings.TrimSpace(req.RegistrationNumber)),
		Model:              fmt.Sprintf("%s %s (%d)", req.Brand, req.Model, req.Year),
		VehicleType:        req.VehicleType,
		CustomerID:         cust.ID,
	}
	if err := s.repos.Customer.CreateVehicle(ctx, v); err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

func (s *CustomerService) MyVehicles(ctx context.Context, userID string) ([]entity.Vehicle, error) {
	cust, err := s.repos.Customer.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unprocessablef(msgNoCustomerProfile)
		}
		return nil, err
	}
	return s.repos.Customer.ListVehicles(ctx, cust.ID)
}
