package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/config"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const msgNoCustomerProfile = "Customer profile not created."

// WorkflowService service request lifecycle after booking
type WorkflowService struct {
	db          *gorm.DB
	repos       *repository.Repositories
	billing     *BillingService
	notifier    Notifier
	stockPolicy string
	live        RequestPublisher
}

// RequestPublisher pushes live status changes to connected clients
type RequestPublisher interface {
	PublishRequestUpdate(userID string, requestID uint, status string)
}

func NewWorkflowService(db *gorm.DB, repos *repository.Repositories, billing *BillingService, notifier Notifier, stockPolicy string) *WorkflowService {
	if stockPolicy == "" {
		stockPolicy = config.StockPolicyAllowNegative
	}
	return &WorkflowService{
		db:          db,
		repos:       repos,
		billing:     billing,
		notifier:    notifier,
		stockPolicy: stockPolicy,
	}
}

// SetRequestPublisher enables live status pushes
func (s *WorkflowService) SetRequestPublisher(p RequestPublisher) {
	s.live = p
}

func (s *WorkflowService) publish(userID string, req *entity.ServiceRequest) {
	if s.live != nil && userID != "" {
		s.live.PublishRequestUpdate(userID, req.ID, string(req.Status))
	}
}

// BookRequest customer booking
type BookRequest struct {
	VehicleID        uint       `json:"vehicle_id" binding:"required"`
	IssueDescription string     `json:"issue_description" binding:"required"`
	Priority         string     `json:"priority" binding:"omitempty,oneof=Normal Urgent"`
	ServiceType      string     `json:"service_type"`
	RequestDate      *time.Time `json:"request_date"`
}

// Book creates a Requested job for one of the customer's vehicles.
func (s *WorkflowService) Book(ctx context.Context, userID string, req *BookRequest) (*entity.ServiceRequest, error) {
	cust, err := s.repos.Customer.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unprocessablef(msgNoCustomerProfile)
		}
		return nil, err
	}
	vehicle, err := s.repos.Customer.FindVehicleOfCustomer(ctx, req.VehicleID, cust.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unprocessablef("Invalid Vehicle ID.")
		}
		return nil, err
	}

	sr := &entity.ServiceRequest{
		VehicleID:        vehicle.ID,
		IssueDescription: req.IssueDescription,
		Status:           entity.StatusRequested,
		Priority:         req.Priority,
		ServiceType:      req.ServiceType,
		RequestDate:      time.Now(),
	}
	if sr.Priority == "" {
		sr.Priority = entity.PriorityNormal
	}
	if sr.ServiceType == "" {
		sr.ServiceType = entity.DefaultServiceType
	}
	if req.RequestDate != nil {
		sr.RequestDate = *req.RequestDate
	}
	if err := s.repos.Request.Create(ctx, sr); err != nil {
		return nil, fmt.Errorf("create service request: %w", err)
	}
	sr.Vehicle = vehicle

	s.notifier.Notify(ctx, userID, fmt.Sprintf("Your service request has been booked. ID: %d", sr.ID))
	return sr, nil
}

// loadOwned loads a request for update and checks the caller owns it.
func (s *WorkflowService) loadOwned(ctx context.Context, tx *gorm.DB, requestID uint, userID string) (*entity.ServiceRequest, error) {
	req, err := s.repos.Request.WithTx(tx).FindForUpdate(ctx, requestID)
	if err != nil {
		return nil, lookup(err, "Service Request not found.")
	}
	if req.OwnerUserID() != userID {
		return nil, forbidden(msgNotOwner)
	}
	return req, nil
}

// Cancel cancels the caller's Requested job.
func (s *WorkflowService) Cancel(ctx context.Context, requestID uint, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := s.loadOwned(ctx, tx, requestID, userID)
		if err != nil {
			return err
		}
		if req.Status != entity.StatusRequested {
			return conflictf("Cannot cancel service. Status must be 'Requested'.")
		}
		old := req.Status
		if err := s.repos.Request.WithTx(tx).UpdateGuarded(ctx, req, map[string]interface{}{"status": entity.StatusCancelled}); err != nil {
			return guarded(err)
		}
		return s.repos.History.WithTx(tx).Record(ctx, req.ID, old, entity.StatusCancelled, userID)
	})
}

// Reschedule moves the date of the caller's Requested job. No history row is written.
func (s *WorkflowService) Reschedule(ctx context.Context, requestID uint, userID string, newDate time.Time) (*entity.ServiceRequest, error) {
	var out *entity.ServiceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := s.loadOwned(ctx, tx, requestID, userID)
		if err != nil {
			return err
		}
		if req.Status != entity.StatusRequested {
			return conflictf("Cannot reschedule service. Status must be 'Requested'.")
		}
		if err := s.repos.Request.WithTx(tx).UpdateGuarded(ctx, req, map[string]interface{}{"request_date": newDate}); err != nil {
			return guarded(err)
		}
		req.RequestDate = newDate
		out = req
		return nil
	})
	return out, err
}

// UpdateStatus moves the assignee's job forward. Completion deducts stock and bills in the same transaction.
func (s *WorkflowService) UpdateStatus(ctx context.Context, requestID uint, status, technicianID string) (*entity.ServiceRequest, error) {
	var (
		updated *entity.ServiceRequest
		bill    *entity.Bill
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reqRepo := s.repos.Request.WithTx(tx)

		req, err := reqRepo.FindForUpdate(ctx, requestID)
		if err != nil {
			return lookup(err, msgRequestNotFound)
		}
		if !req.IsAssignedTo(technicianID) {
			return forbidden(msgNotAssignee)
		}
		next, err := entity.ParseStatus(status)
		if err != nil {
			return unprocessablef("Invalid status '%s'", status)
		}
		if next == entity.StatusCompleted && req.Status == entity.StatusCompleted {
			return conflictf("Job is already completed.")
		}
		if !req.Status.CanTechnicianMove(next) {
			return conflictf("Cannot change status from %s to %s", req.Status, next)
		}

		old := req.Status
		fields := map[string]interface{}{"status": next}
		var completedAt time.Time
		if next == entity.StatusCompleted {
			completedAt = time.Now()
			fields["completed_at"] = completedAt
		}
		if err := reqRepo.UpdateGuarded(ctx, req, fields); err != nil {
			return guarded(err)
		}
		req.Status = next
		if next == entity.StatusCompleted {
			req.CompletedAt = &completedAt
		}
		if err := s.repos.History.WithTx(tx).Record(ctx, req.ID, old, next, technicianID); err != nil {
			return fmt.Errorf("record history: %w", err)
		}

		if next == entity.StatusCompleted {
			if err := s.deductStock(ctx, tx, req.ID, technicianID); err != nil {
				return err
			}
			bill, created, err = s.billing.generateBill(ctx, tx, req, technicianID)
			if err != nil {
				return err
			}
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	owner := updated.OwnerUserID()
	s.notifier.Notify(ctx, owner, fmt.Sprintf(
		"Your service request (ID: %d) status has been updated to: %s", updated.ID, updated.Status))
	s.publish(owner, updated)
	if created {
		s.billing.notifyBill(ctx, owner, bill)
	}
	return updated, nil
}

// deductStock consumes every usage of the request under the configured stock policy.
func (s *WorkflowService) deductStock(ctx context.Context, tx *gorm.DB, requestID uint, actorID string) error {
	partRepo := s.repos.Part.WithTx(tx)
	usages, err := partRepo.ListUsages(ctx, requestID)
	if err != nil {
		return fmt.Errorf("list part usages: %w", err)
	}
	for _, u := range usages {
		part, err := partRepo.FindForUpdate(ctx, u.PartID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return err
		}
		balance, delta, err := ApplyStockPolicy(s.stockPolicy, part, u.Quantity)
		if err != nil {
			return err
		}
		if err := partRepo.SetStock(ctx, part.ID, balance); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		rid := requestID
		err = partRepo.CreateMovement(ctx, &entity.StockMovement{
			PartID:           part.ID,
			ServiceRequestID: &rid,
			Delta:            delta,
			Balance:          balance,
			Reason:           entity.MovementJobCompletion,
			CreatedBy:        actorID,
		})
		if err != nil {
			return fmt.Errorf("record stock movement: %w", err)
		}
	}
	return nil
}

// ApplyStockPolicy returns the new balance and the applied delta for consuming qty of part.
func ApplyStockPolicy(policy string, part *entity.Part, qty int) (balance, delta int, err error) {
	balance = part.StockQuantity - qty
	switch policy {
	case config.StockPolicyClamp:
		if balance < 0 {
			balance = 0
		}
	case config.StockPolicyReject:
		if balance < 0 {
			return 0, 0, unprocessablef("Insufficient stock for part %s", part.Name)
		}
	}
	return balance, balance - part.StockQuantity, nil
}

// PartLine one part consumed on a job
type PartLine struct {
	PartID   uint `json:"part_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// UseParts records consumption on the assignee's open job. Stock moves only at completion.
func (s *WorkflowService) UseParts(ctx context.Context, requestID uint, technicianID string, lines []PartLine) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := s.repos.Request.WithTx(tx).FindForUpdate(ctx, requestID)
		if err != nil {
			return lookup(err, msgRequestNotFound)
		}
		if !req.IsAssignedTo(technicianID) {
			return forbidden(msgNotAssignee)
		}
		if !req.Status.IsActive() {
			return conflictf("Parts can only be recorded while the job is Assigned or In Progress")
		}
		partRepo := s.repos.Part.WithTx(tx)
		for _, line := range lines {
			if line.Quantity <= 0 {
				return unprocessablef("Quantity must be positive")
			}
			// shares the row lock with part deletion
			if _, err := partRepo.FindForUpdate(ctx, line.PartID); err != nil {
				return lookup(err, fmt.Sprintf("Part %d not found", line.PartID))
			}
			err := partRepo.CreateUsage(ctx, &entity.PartUsage{
				ServiceRequestID: req.ID,
				PartID:           line.PartID,
				Quantity:         line.Quantity,
				RecordedBy:       technicianID,
			})
			if err != nil {
				return fmt.Errorf("record part usage: %w", err)
			}
		}
		return nil
	})
}

// UsedPart usage line as shown to the technician
type UsedPart struct {
	PartID   uint            `json:"part_id"`
	PartName string          `json:"part_name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

func (s *WorkflowService) UsedParts(ctx context.Context, requestID uint, technicianID string) ([]UsedPart, error) {
	req, err := s.repos.Request.FindByID(ctx, requestID)
	if err != nil {
		return nil, lookup(err, msgRequestNotFound)
	}
	if !req.IsAssignedTo(technicianID) {
		return nil, forbidden(msgNotAssignee)
	}
	usages, err := s.repos.Part.ListUsages(ctx, requestID)
	if err != nil {
		return nil, err
	}
	out := make([]UsedPart, 0, len(usages))
	for _, u := range usages {
		line := UsedPart{PartID: u.PartID, Quantity: u.Quantity}
		if u.Part != nil {
			line.PartName = u.Part.Name
			line.Price = u.Part.Price
		}
		out = append(out, line)
	}
	return out, nil
}

// TechnicianTask job row for the technician's task list
type TechnicianTask struct {
	ServiceRequestID uint          `json:"service_request_id"`
	VehicleNumber    string        `json:"vehicle_number"`
	IssueDescription string        `json:"issue_description"`
	Priority         string        `json:"priority"`
	Status           entity.Status `json:"status"`
	RequestDate      time.Time     `json:"request_date"`
}

func (s *WorkflowService) TechnicianTasks(ctx context.Context, technicianID string) ([]TechnicianTask, error) {
	items, err := s.repos.Request.ListForTechnician(ctx, technicianID, entity.ActiveStatuses...)
	if err != nil {
		return nil, err
	}
	out := make([]TechnicianTask, 0, len(items))
	for _, r := range items {
		number := "N/A"
		if r.Vehicle != nil && r.Vehicle.RegistrationNumber != "" {
			number = r.Vehicle.RegistrationNumber
		}
		out = append(out, TechnicianTask{
			ServiceRequestID: r.ID,
			VehicleNumber:    number,
			IssueDescription: r.IssueDescription,
			Priority:         r.Priority,
			Status:           r.Status,
			RequestDate:      r.RequestDate,
		})
	}
	return out, nil
}

// History status history, newest first. Customers see only their own requests.
func (s *WorkflowService) History(ctx context.Context, requestID uint, userID, role string) ([]entity.ServiceStatusHistory, error) {
	req, err := s.repos.Request.FindByID(ctx, requestID)
	if err != nil {
		return nil, lookup(err, msgRequestNotFound)
	}
	switch role {
	case entity.RoleAdmin, entity.RoleManager, entity.RoleTechnician:
	default:
		if req.OwnerUserID() != userID {
			return nil, forbidden(msgNotOwner)
		}
	}
	return s.repos.History.ListByRequest(ctx, requestID)
}

// CustomerServiceHistory row of the customer's service list
type CustomerServiceHistory struct {
	ServiceRequestID uint          `json:"service_request_id"`
	VehicleNumber    string        `json:"vehicle_number"`
	IssueDescription string        `json:"issue_description"`
	Status           entity.Status `json:"status"`
	TechnicianName   string        `json:"technician_name"`
	ServiceType      string        `json:"service_type"`
	Priority         string        `json:"priority"`
	RequestDate      time.Time     `json:"request_date"`
}

func (s *WorkflowService) CustomerHistory(ctx context.Context, userID string) ([]CustomerServiceHistory, error) {
	cust, err := s.customer(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.repos.Request.ListForCustomer(ctx, cust.ID)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerServiceHistory, 0, len(items))
	for _, r := range items {
		row := CustomerServiceHistory{
			ServiceRequestID: r.ID,
			IssueDescription: r.IssueDescription,
			Status:           r.Status,
			TechnicianName:   r.TechnicianName,
			ServiceType:      r.ServiceType,
			Priority:         r.Priority,
			RequestDate:      r.RequestDate,
		}
		if r.Vehicle != nil {
			row.VehicleNumber = r.Vehicle.RegistrationNumber
		}
		out = append(out, row)
	}
	return out, nil
}

// CustomerStats customer dashboard counters
type CustomerStats struct {
	ActiveServices int64 `json:"active_services"`
	MyVehicles     int64 `json:"my_vehicles"`
	PendingBills   int64 `json:"pending_bills"`
}

func (s *WorkflowService) CustomerStats(ctx context.Context, userID string) (*CustomerStats, error) {
	cust, err := s.customer(ctx, userID)
	if err != nil {
		return nil, err
	}
	active, err := s.repos.Request.CountForCustomerExcluding(ctx, cust.ID,
		entity.StatusCompleted, entity.StatusClosed, entity.StatusCancelled)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.repos.Customer.CountVehicles(ctx, cust.ID)
	if err != nil {
		return nil, err
	}
	pending, err := s.repos.Bill.CountPendingForCustomer(ctx, cust.ID)
	if err != nil {
		return nil, err
	}
	return &CustomerStats{ActiveServices: active, MyVehicles: vehicles, PendingBills: pending}, nil
}

func (s *WorkflowService) customer(ctx context.Context, userID string) (*entity.Customer, error) {
	cust, err := s.repos.Customer.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unprocessablef(msgNoCustomerProfile)
		}
		return nil, err
	}
	return cust, nil
}
