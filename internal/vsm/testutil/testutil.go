package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/config"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/middleware"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "vsm-test-jwt-secret"

var dbSeq int64

// SetupTestDB opens an isolated in-memory SQLite database with all VSM tables.
// A single connection keeps every statement of a transaction on the same session.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("vsm_test_%d_%d", time.Now().UnixNano(), atomic.AddInt64(&dbSeq, 1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// TestConfig config with test defaults
func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.JWT.Secret = JWTSecret
	cfg.JWT.Issuer = "vsm-test"
	cfg.JWT.AccessTokenExpire = time.Hour
	cfg.JWT.RefreshTokenExpire = 24 * time.Hour
	cfg.Workshop.StockPolicy = config.StockPolicyAllowNegative
	cfg.Workshop.LowStockThreshold = 5
	return cfg
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid access token for user with a single role
func GenerateTestToken(userID, name, role string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": userID + "@test.local",
		"roles": []string{role},
		"iss":   "vsm-test",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"jti":   uuid.New().String(),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	return token
}

// TokenFor token for a seeded user
func TokenFor(u *entity.User) string {
	return GenerateTestToken(u.ID, u.FullName, u.Role)
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON envelope into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedUser creates a user with password "secret123"
func SeedUser(t *testing.T, db *gorm.DB, name, role string, active bool) *entity.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        fmt.Sprintf("%s.%d@test.local", role, atomic.AddInt64(&dbSeq, 1)),
		FullName:     name,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

// SeedCustomer creates a Customer user with profile and one vehicle
func SeedCustomer(t *testing.T, db *gorm.DB, name string) (*entity.User, *entity.Customer, *entity.Vehicle) {
	t.Helper()
	user := SeedUser(t, db, name, entity.RoleCustomer, true)
	cust := &entity.Customer{UserID: user.ID, FullName: name}
	if err := db.Create(cust).Error; err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	vehicle := &entity.Vehicle{
		RegistrationNumber: fmt.Sprintf("KA01AB%04d", cust.ID),
		Model:              "Maruti Swift (2020)",
		VehicleType:        "Car",
		CustomerID:         cust.ID,
	}
	if err := db.Create(vehicle).Error; err != nil {
		t.Fatalf("Failed to seed vehicle: %v", err)
	}
	return user, cust, vehicle
}

// SeedRequest creates a service request on vehicle with the given status and assignee
func SeedRequest(t *testing.T, db *gorm.DB, vehicleID uint, status entity.Status, tech *entity.User) *entity.ServiceRequest {
	t.Helper()
	req := &entity.ServiceRequest{
		IssueDescription: "Engine noise",
		Status:           status,
		RequestDate:      time.Now(),
		VehicleID:        vehicleID,
		Priority:         entity.PriorityNormal,
		ServiceType:      entity.DefaultServiceType,
	}
	if tech != nil {
		req.TechnicianID = &tech.ID
		req.TechnicianName = tech.DisplayName()
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("Failed to seed service request: %v", err)
	}
	return req
}

// SeedPart creates a part
func SeedPart(t *testing.T, db *gorm.DB, name, price string, stock int) *entity.Part {
	t.Helper()
	p := &entity.Part{Name: name, Price: decimal.RequireFromString(price), StockQuantity: stock}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("Failed to seed part: %v", err)
	}
	return p
}

// SeedCategory creates a service category
func SeedCategory(t *testing.T, db *gorm.DB, name, labour string) *entity.ServiceCategory {
	t.Helper()
	c := &entity.ServiceCategory{Name: name, LabourCharge: decimal.RequireFromString(labour), EstimatedHours: 2}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}
	return c
}
