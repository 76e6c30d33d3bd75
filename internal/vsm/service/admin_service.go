package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"gorm.io/gorm"
)

// AdminService user administration
type AdminService struct {
	db    *gorm.DB
	repos *repository.Repositories
}

func NewAdminService(db *gorm.DB, repos *repository.Repositories) *AdminService {
	return &AdminService{db: db, repos: repos}
}

func (s *AdminService) ListUsers(ctx context.Context, role string) ([]entity.User, error) {
	return s.repos.User.List(ctx, role)
}

// CreateUserRequest admin-created account
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
}

// CreateUser creates an account of any role; Customers also get a profile.
func (s *AdminService) CreateUser(ctx context.Context, req *CreateUserRequest) (*entity.User, error) {
	if !entity.ValidRole(req.Role) {
		return nil, unprocessablef("Invalid role '%s'", req.Role)
	}
	email := strings.TrimSpace(req.Email)
	if _, err := s.repos.User.FindByEmail(ctx, email); err == nil {
		return nil, conflictf("Email is already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     req.FullName,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repos.User.WithTx(tx).Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if user.Role != entity.RoleCustomer {
			return nil
		}
		return s.repos.Customer.WithTx(tx).Create(ctx, &entity.Customer{
			UserID:   user.ID,
			FullName: user.FullName,
			Phone:    user.Phone,
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserRequest admin edit; nil fields are left alone
type UpdateUserRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
}

func (s *AdminService) UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) (*entity.User, error) {
	user, err := s.repos.User.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	if req.Role != nil {
		if !entity.ValidRole(*req.Role) {
			return nil, unprocessablef("Invalid role '%s'", *req.Role)
		}
		user.Role = *req.Role
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if err := s.repos.User.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetActive deactivates or reactivates an account. Admins cannot deactivate themselves.
func (s *AdminService) SetActive(ctx context.Context, actorID, id string, active bool) error {
	if !active && actorID == id {
		return conflictf("You cannot deactivate your own account")
	}
	if err := s.repos.User.SetActive(ctx, id, active); err != nil {
		return lookup(err, "User not found")
	}
	return nil
}
