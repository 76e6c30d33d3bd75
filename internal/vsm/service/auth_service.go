package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/config"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const refreshKeyPrefix = "token:refresh:"

// AuthService password login and JWT issuing
type AuthService struct {
	db    *gorm.DB
	repos *repository.Repositories
	rdb   *redis.Client
	cfg   *config.Config
}

func NewAuthService(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{db: db, repos: repos, rdb: rdb, cfg: cfg}
}

// TokenPair access and refresh token
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RegisterRequest customer self-registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

// Register creates a Customer user together with the customer profile.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
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
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repos.User.WithTx(tx).Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
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

// Login checks the password and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, *TokenPair, error) {
	user, err := s.repos.User.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, &Error{Kind: ErrUnauthorized, Message: "Invalid email or password"}
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, &Error{Kind: ErrUnauthorized, Message: "Invalid email or password"}
	}
	if !user.IsActive {
		return nil, nil, forbidden("Account is deactivated")
	}
	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"sub":   user.ID,
		"uid":   user.ID,
		"name":  user.DisplayName(),
		"email": user.Email,
		"roles": []string{user.Role},
		"iss":   s.cfg.JWT.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWT.AccessTokenExpire).Unix(),
		"jti":   uuid.New().String(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshJti := uuid.New().String()
	refreshClaims := jwt.MapClaims{
		"sub":  user.ID,
		"type": "refresh",
		"iss":  s.cfg.JWT.Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWT.RefreshTokenExpire).Unix(),
		"jti":  refreshJti,
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.rdb.Set(ctx, refreshKeyPrefix+refreshJti, user.ID, s.cfg.JWT.RefreshTokenExpire).Err(); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.JWT.AccessTokenExpire.Seconds()),
	}, nil
}

// parseRefresh validates a refresh token and returns its jti
func (s *AuthService) parseRefresh(tokenString string) (string, error) {
	invalid := &Error{Kind: ErrUnauthorized, Message: "Invalid refresh token"}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", invalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["type"] != "refresh" {
		return "", invalid
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", invalid
	}
	return jti, nil
}

// RefreshToken rotates a refresh token; each one is single-use.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	jti, err := s.parseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	userID, err := s.rdb.GetDel(ctx, refreshKeyPrefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, &Error{Kind: ErrUnauthorized, Message: "Refresh token expired or revoked"}
		}
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	user, err := s.repos.User.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &Error{Kind: ErrUnauthorized, Message: "User not found"}
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, forbidden("Account is deactivated")
	}
	return s.generateTokenPair(ctx, user)
}

// Logout revokes the given refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	jti, err := s.parseRefresh(refreshToken)
	if err != nil {
		return nil
	}
	return s.rdb.Del(ctx, refreshKeyPrefix+jti).Err()
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.repos.User.FindByID(ctx, userID)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	return user, nil
}

// UpdateProfileRequest editable profile fields
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// UpdateProfile updates the user and mirrors the change into the customer profile.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*entity.User, error) {
	var user *entity.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := s.repos.User.WithTx(tx).FindByID(ctx, userID)
		if err != nil {
			return lookup(err, "User not found")
		}
		if req.FullName != nil {
			u.FullName = *req.FullName
		}
		if req.Phone != nil {
			u.Phone = *req.Phone
		}
		if err := s.repos.User.WithTx(tx).Update(ctx, u); err != nil {
			return err
		}
		user = u

		cust, err := s.repos.Customer.WithTx(tx).FindByUserID(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		cust.FullName = u.FullName
		cust.Phone = u.Phone
		return s.repos.Customer.WithTx(tx).Update(ctx, cust)
	})
	return user, err
}

// ChangePassword requires the current password.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.repos.User.FindByID(ctx, userID)
	if err != nil {
		return lookup(err, "User not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return unprocessablef("Current password is incorrect")
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.repos.User.Update(ctx, user)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
