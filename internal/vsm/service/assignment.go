package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"gorm.io/gorm"
)

// MaxActiveJobs a technician may hold in Assigned or In Progress
const MaxActiveJobs = 3

const (
	msgOverloaded    = "Technician overloaded. Cannot assign more than 3 active jobs."
	msgNoTechnician  = "No technician currently available"
	msgInvalidTech   = "Invalid or Inactive Technician"
	msgNotAssignable = "Request is already %s. Must be 'Requested' to assign."
)

// WorkloadSnapshot active technicians and their active-job counts, read in one transaction
type WorkloadSnapshot struct {
	Technicians []string
	Counts      map[string]int
}

// CheckCapacity decides whether technicianID can take one more job.
// It is pure: everything it needs is in the snapshot.
func CheckCapacity(snap WorkloadSnapshot, technicianID string) error {
	if snap.Counts[technicianID] < MaxActiveJobs {
		return nil
	}
	for _, id := range snap.Technicians {
		if id != technicianID && snap.Counts[id] < MaxActiveJobs {
			return &Error{Kind: ErrCapacityExhausted, Message: msgOverloaded}
		}
	}
	return &Error{Kind: ErrCapacityExhausted, Message: msgNoTechnician}
}

// TechnicianLoad availability row
type TechnicianLoad struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	ActiveJobs int    `json:"active_jobs"`
	Available  bool   `json:"available"`
}

// AssignmentService technician assignment engine
type AssignmentService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	notifier Notifier
}

func NewAssignmentService(db *gorm.DB, repos *repository.Repositories, notifier Notifier) *AssignmentService {
	return &AssignmentService{db: db, repos: repos, notifier: notifier}
}

// AssignTechnician assigns a Requested job to an active technician with spare capacity.
func (s *AssignmentService) AssignTechnician(ctx context.Context, requestID uint, technicianID, actorID string) (*entity.ServiceRequest, error) {
	var assigned *entity.ServiceRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reqRepo := s.repos.Request.WithTx(tx)
		userRepo := s.repos.User.WithTx(tx)

		req, err := reqRepo.FindForUpdate(ctx, requestID)
		if err != nil {
			return lookup(err, msgRequestNotFound)
		}
		if req.Status != entity.StatusRequested {
			return conflictf(msgNotAssignable, req.Status)
		}

		tech, err := userRepo.FindTechnicianForUpdate(ctx, technicianID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && !tech.IsActive) {
			return unprocessablef(msgInvalidTech)
		}
		if err != nil {
			return err
		}

		snap, err := s.snapshot(ctx, tx)
		if err != nil {
			return err
		}
		if err := CheckCapacity(snap, tech.ID); err != nil {
			return err
		}

		old := req.Status
		techName := tech.DisplayName()
		err = reqRepo.UpdateGuarded(ctx, req, map[string]interface{}{
			"technician_id":   tech.ID,
			"technician_name": techName,
			"status":          entity.StatusAssigned,
		})
		if err != nil {
			return guarded(err)
		}
		req.TechnicianID = &tech.ID
		req.TechnicianName = techName
		req.Status = entity.StatusAssigned

		if err := s.repos.History.WithTx(tx).Record(ctx, req.ID, old, entity.StatusAssigned, actorID); err != nil {
			return fmt.Errorf("record history: %w", err)
		}
		assigned = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, technicianID,
		fmt.Sprintf("A new service task has been assigned to you. Request ID: %d", assigned.ID))
	return assigned, nil
}

// snapshot reads active technicians and their grouped job counts on tx
func (s *AssignmentService) snapshot(ctx context.Context, tx *gorm.DB) (WorkloadSnapshot, error) {
	techs, err := s.repos.User.WithTx(tx).ListActiveTechnicians(ctx)
	if err != nil {
		return WorkloadSnapshot{}, fmt.Errorf("list technicians: %w", err)
	}
	counts, err := s.repos.Request.WithTx(tx).ActiveJobCounts(ctx)
	if err != nil {
		return WorkloadSnapshot{}, fmt.Errorf("count active jobs: %w", err)
	}
	snap := WorkloadSnapshot{Counts: counts}
	for _, t := range techs {
		snap.Technicians = append(snap.Technicians, t.ID)
	}
	return snap, nil
}

// TechnicianAvailability active technicians with their current load
func (s *AssignmentService) TechnicianAvailability(ctx context.Context) ([]TechnicianLoad, error) {
	techs, err := s.repos.User.ListActiveTechnicians(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repos.Request.ActiveJobCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TechnicianLoad, 0, len(techs))
	for _, t := range techs {
		n := counts[t.ID]
		out = append(out, TechnicianLoad{
			ID:         t.ID,
			Name:       t.DisplayName(),
			Email:      t.Email,
			Phone:      t.Phone,
			ActiveJobs: n,
			Available:  n < MaxActiveJobs,
		})
	}
	return out, nil
}

func (s *AssignmentService) ActiveTechnicians(ctx context.Context) ([]entity.User, error) {
	return s.repos.User.ListActiveTechnicians(ctx)
}

// PendingRequests jobs a manager still has to look at: Requested or Assigned
func (s *AssignmentService) PendingRequests(ctx context.Context) ([]entity.ServiceRequest, error) {
	return s.repos.Request.ListByStatuses(ctx, entity.StatusRequested, entity.StatusAssigned)
}
