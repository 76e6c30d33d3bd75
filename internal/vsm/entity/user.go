package entity

import "time"

// Roles
const (
	RoleAdmin      = "Admin"
	RoleManager    = "Manager"
	RoleTechnician = "Technician"
	RoleCustomer   = "Customer"
)

// ValidRole reports whether r is one of the four roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTechnician, RoleCustomer:
		return true
	}
	return false
}

// User login identity. Technicians are users with RoleTechnician.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"size:200;not null;uniqueIndex"`
	FullName     string    `json:"full_name" gorm:"size:100"`
	Phone        string    `json:"phone" gorm:"size:30"`
	PasswordHash string    `json:"-" gorm:"size:100;not null"`
	Role         string    `json:"role" gorm:"size:20;not null;index"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "vsm_users"
}

// DisplayName full name, falling back to email.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// Customer profile linked to a Customer user
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:36;not null;uniqueIndex"`
	FullName  string    `json:"full_name" gorm:"size:100"`
	Phone     string    `json:"phone" gorm:"size:30"`
	CreatedAt time.Time `json:"created_at"`
}

func (Customer) TableName() string {
	return "vsm_customers"
}

// Vehicle owned by a customer
type Vehicle struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	RegistrationNumber string    `json:"registration_number" gorm:"size:30;not null;index"`
	Model              string    `json:"model" gorm:"size:120;not null"`
	VehicleType        string    `json:"vehicle_type" gorm:"size:30;not null"`
	CustomerID         uint      `json:"customer_id" gorm:"not null;index"`
	CreatedAt          time.Time `json:"created_at"`

	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

func (Vehicle) TableName() string {
	return "vsm_vehicles"
}
