package entity

import (
	"fmt"
	"time"
)

// Status service request status
type Status string

const (
	StatusRequested  Status = "Requested"
	StatusAssigned   Status = "Assigned"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusClosed     Status = "Closed"
	StatusCancelled  Status = "Cancelled"
)

// ActiveStatuses count towards a technician's workload.
var ActiveStatuses = []Status{StatusAssigned, StatusInProgress}

// ParseStatus accepts only the six known statuses.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusRequested, StatusAssigned, StatusInProgress, StatusCompleted, StatusClosed, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// IsActive reports whether the status counts as an active job.
func (s Status) IsActive() bool {
	return s == StatusAssigned || s == StatusInProgress
}

// technician-driven transitions
var technicianTransitions = map[Status][]Status{
	StatusAssigned:   {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusCompleted},
}

// CanTechnicianMove reports whether the assignee may move a job from s to next.
func (s Status) CanTechnicianMove(next Status) bool {
	for _, allowed := range technicianTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Priorities
const (
	PriorityNormal = "Normal"
	PriorityUrgent = "Urgent"
)

// DefaultServiceType used when a booking names no category
const DefaultServiceType = "General Service"

// ServiceRequest a booked service job
type ServiceRequest struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	IssueDescription string     `json:"issue_description" gorm:"type:text;not null"`
	Status           Status     `json:"status" gorm:"size:20;not null;index;default:Requested"`
	RequestDate      time.Time  `json:"request_date" gorm:"not null;index"`
	VehicleID        uint       `json:"vehicle_id" gorm:"not null;index"`
	TechnicianID     *string    `json:"technician_id" gorm:"size:36;index"`
	TechnicianName   string     `json:"technician_name" gorm:"size:100"`
	Priority         string     `json:"priority" gorm:"size:20;not null;default:Normal"`
	ServiceType      string     `json:"service_type" gorm:"size:100;not null"`
	Version          int        `json:"version" gorm:"not null;default:0"`
	CompletedAt      *time.Time `json:"completed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Vehicle *Vehicle `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}

func (ServiceRequest) TableName() string {
	return "vsm_service_requests"
}

// IsAssignedTo reports whether technicianID is the assignee.
func (r *ServiceRequest) IsAssignedTo(technicianID string) bool {
	return r.TechnicianID != nil && *r.TechnicianID == technicianID
}

// OwnerUserID user id of the owning customer, empty when not loaded.
func (r *ServiceRequest) OwnerUserID() string {
	if r.Vehicle == nil || r.Vehicle.Customer == nil {
		return ""
	}
	return r.Vehicle.Customer.UserID
}

// ServiceStatusHistory append-only status audit row
type ServiceStatusHistory struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ServiceRequestID uint      `json:"service_request_id" gorm:"not null;index"`
	OldStatus        Status    `json:"old_status" gorm:"size:20"`
	NewStatus        Status    `json:"new_status" gorm:"size:20;not null"`
	ChangedBy        string    `json:"changed_by" gorm:"size:36"`
	ChangedAt        time.Time `json:"changed_at" gorm:"not null"`
}

func (ServiceStatusHistory) TableName() string {
	return "vsm_service_status_histories"
}

// Actor markers for history rows without an authenticated user
const (
	ActorUnknown = "Unknown"
	ActorSystem  = "System"
)
