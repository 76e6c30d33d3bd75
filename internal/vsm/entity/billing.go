package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
)

// Bill one per service request
type Bill struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	ServiceRequestID uint            `json:"service_request_id" gorm:"not null;uniqueIndex"`
	LabourCost       decimal.Decimal `json:"labour_cost" gorm:"type:decimal(12,2);not null"`
	PartsCost        decimal.Decimal `json:"parts_cost" gorm:"type:decimal(12,2);not null"`
	TaxAmount        decimal.Decimal `json:"tax_amount" gorm:"type:decimal(12,2);not null"`
	TotalAmount      decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	PaymentStatus    string          `json:"payment_status" gorm:"size:20;not null;default:Pending;index"`
	GeneratedAt      time.Time       `json:"generated_at" gorm:"not null;index"`
	PaidAt           *time.Time      `json:"paid_at"`
	CreatedBy        string          `json:"created_by" gorm:"size:36"`
	CreatedAt        time.Time       `json:"created_at"`

	ServiceRequest *ServiceRequest `json:"service_request,omitempty" gorm:"foreignKey:ServiceRequestID"`
}

func (Bill) TableName() string {
	return "vsm_bills"
}

// Notification in-app message for a user
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:36;not null;index"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	IsRead    bool      `json:"is_read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "vsm_notifications"
}
