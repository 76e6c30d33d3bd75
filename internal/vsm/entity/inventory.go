package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part spare part kept in stock
type Part struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"size:120;not null"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Part) TableName() string {
	return "vsm_parts"
}

// PartUsage part consumed by a service request. Stock is untouched until completion.
type PartUsage struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ServiceRequestID uint      `json:"service_request_id" gorm:"not null;index"`
	PartID           uint      `json:"part_id" gorm:"not null;index"`
	Quantity         int       `json:"quantity" gorm:"not null"`
	RecordedBy       string    `json:"recorded_by" gorm:"size:36"`
	CreatedAt        time.Time `json:"created_at"`

	Part *Part `json:"part,omitempty" gorm:"foreignKey:PartID"`
}

func (PartUsage) TableName() string {
	return "vsm_part_usages"
}

// Stock movement reasons
const (
	MovementJobCompletion = "JOB_COMPLETION"
	MovementAdjust        = "ADJUST"
)

// StockMovement stock ledger row. Delta is negative for consumption.
type StockMovement struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	PartID           uint      `json:"part_id" gorm:"not null;index"`
	ServiceRequestID *uint     `json:"service_request_id" gorm:"index"`
	Delta            int       `json:"delta" gorm:"not null"`
	Balance          int       `json:"balance" gorm:"not null"`
	Reason           string    `json:"reason" gorm:"size:30;not null"`
	Notes            string    `json:"notes" gorm:"size:255"`
	CreatedBy        string    `json:"created_by" gorm:"size:36"`
	CreatedAt        time.Time `json:"created_at"`
}

func (StockMovement) TableName() string {
	return "vsm_stock_movements"
}

// ServiceCategory master data; Name is matched against ServiceRequest.ServiceType.
type ServiceCategory struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Name           string          `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Description    string          `json:"description" gorm:"size:200"`
	LabourCharge   decimal.Decimal `json:"labour_charge" gorm:"type:decimal(12,2);not null"`
	EstimatedHours int             `json:"estimated_hours" gorm:"not null"`
	CreatedBy      string          `json:"created_by" gorm:"size:36"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (ServiceCategory) TableName() string {
	return "vsm_service_categories"
}
