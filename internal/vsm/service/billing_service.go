package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// DefaultLabourCharge applies when no category matches the service type
	DefaultLabourCharge = decimal.NewFromInt(500)
	// TaxRate applied to parts plus labour
	TaxRate = decimal.NewFromFloat(0.18)
)

// InvoiceArchiver stores a copy of a paid bill's invoice
type InvoiceArchiver interface {
	ArchiveInvoice(ctx context.Context, billID uint) error
}

// BillAmounts computed money fields of a bill
type BillAmounts struct {
	Labour decimal.Decimal
	Parts  decimal.Decimal
	Tax    decimal.Decimal
	Total  decimal.Decimal
}

// ComputeBill prices the usages plus labour and adds tax, rounded to cents.
func ComputeBill(usages []entity.PartUsage, labour decimal.Decimal) BillAmounts {
	parts := decimal.Zero
	for _, u := range usages {
		if u.Part == nil {
			continue
		}
		parts = parts.Add(u.Part.Price.Mul(decimal.NewFromInt(int64(u.Quantity))))
	}
	parts = parts.Round(2)
	labour = labour.Round(2)
	tax := parts.Add(labour).Mul(TaxRate).Round(2)
	return BillAmounts{
		Labour: labour,
		Parts:  parts,
		Tax:    tax,
		Total:  parts.Add(labour).Add(tax),
	}
}

// BillingService completion billing and payments
type BillingService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	notifier Notifier
	archiver InvoiceArchiver
	logger   *zap.Logger
}

func NewBillingService(db *gorm.DB, repos *repository.Repositories, notifier Notifier, logger *zap.Logger) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingService{db: db, repos: repos, notifier: notifier, logger: logger.Named("billing")}
}

// SetInvoiceArchiver enables invoice archiving after payment
func (s *BillingService) SetInvoiceArchiver(a InvoiceArchiver) {
	s.archiver = a
}

// GenerateBill returns the request's bill, creating it on first call.
// created is false when the bill already existed.
func (s *BillingService) GenerateBill(ctx context.Context, requestID uint, actorID string) (*entity.Bill, bool, error) {
	var (
		bill    *entity.Bill
		created bool
		owner   string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := s.repos.Request.WithTx(tx).FindForUpdate(ctx, requestID)
		if err != nil {
			// an existing bill wins even if the request row is gone
			if existing, ferr := s.repos.Bill.WithTx(tx).FindByRequestID(ctx, requestID); ferr == nil {
				bill = existing
				return nil
			}
			return lookup(err, msgRequestNotFound)
		}
		bill, created, err = s.generateBill(ctx, tx, req, actorID)
		owner = req.OwnerUserID()
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		s.notifyBill(ctx, owner, bill)
	}
	return bill, created, nil
}

// generateBill runs on tx with the request row already locked.
func (s *BillingService) generateBill(ctx context.Context, tx *gorm.DB, req *entity.ServiceRequest, actorID string) (*entity.Bill, bool, error) {
	billRepo := s.repos.Bill.WithTx(tx)

	existing, err := billRepo.FindByRequestID(ctx, req.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	if req.Status != entity.StatusCompleted {
		return nil, false, unprocessablef("Bill can only be generated for Completed services")
	}

	usages, err := s.repos.Part.WithTx(tx).ListUsages(ctx, req.ID)
	if err != nil {
		return nil, false, fmt.Errorf("list part usages: %w", err)
	}

	labour := DefaultLabourCharge
	cat, err := s.repos.Category.WithTx(tx).FindByName(ctx, req.ServiceType)
	switch {
	case err == nil:
		labour = cat.LabourCharge
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, fmt.Errorf("find category: %w", err)
	}

	amounts := ComputeBill(usages, labour)
	bill := &entity.Bill{
		ServiceRequestID: req.ID,
		LabourCost:       amounts.Labour,
		PartsCost:        amounts.Parts,
		TaxAmount:        amounts.Tax,
		TotalAmount:      amounts.Total,
		PaymentStatus:    entity.PaymentPending,
		GeneratedAt:      time.Now(),
		CreatedBy:        actorID,
	}
	if err := billRepo.Create(ctx, bill); err != nil {
		return nil, false, fmt.Errorf("create bill: %w", err)
	}
	return bill, true, nil
}

func (s *BillingService) notifyBill(ctx context.Context, ownerID string, bill *entity.Bill) {
	s.notifier.Notify(ctx, ownerID, fmt.Sprintf(
		"Your vehicle service is completed. Bill generated (ID: %d). Total: %s",
		bill.ID, bill.TotalAmount.StringFixed(2)))
}

// ProcessPayment marks the bill Paid and closes its request. Paying twice is a no-op.
func (s *BillingService) ProcessPayment(ctx context.Context, billID uint) (*entity.Bill, error) {
	var (
		bill      *entity.Bill
		newlyPaid bool
		owner     string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		billRepo := s.repos.Bill.WithTx(tx)
		reqRepo := s.repos.Request.WithTx(tx)

		b, err := billRepo.FindForUpdate(ctx, billID)
		if err != nil {
			return lookup(err, msgBillNotFound)
		}
		bill = b
		if b.PaymentStatus == entity.PaymentPaid {
			return nil
		}

		now := time.Now()
		ok, err := billRepo.MarkPaid(ctx, b.ID, now)
		if err != nil {
			return fmt.Errorf("mark bill paid: %w", err)
		}
		if !ok {
			return nil
		}
		newlyPaid = true
		b.PaymentStatus = entity.PaymentPaid
		b.PaidAt = &now

		req, err := reqRepo.FindForUpdate(ctx, b.ServiceRequestID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		owner = req.OwnerUserID()
		if req.Status == entity.StatusClosed {
			return nil
		}
		old := req.Status
		if err := reqRepo.UpdateGuarded(ctx, req, map[string]interface{}{"status": entity.StatusClosed}); err != nil {
			return guarded(err)
		}
		return s.repos.History.WithTx(tx).Record(ctx, req.ID, old, entity.StatusClosed, entity.ActorSystem)
	})
	if err != nil {
		return nil, err
	}

	if newlyPaid {
		if owner != "" {
			s.notifier.Notify(ctx, owner, fmt.Sprintf(
				"Payment successful for Bill #%d. Service Request is now Closed.", bill.ID))
		}
		s.archiveAsync(bill.ID)
	}
	return bill, nil
}

// PayOwnBill pays a bill after checking that userID owns its vehicle.
func (s *BillingService) PayOwnBill(ctx context.Context, billID uint, userID string) (*entity.Bill, error) {
	b, err := s.repos.Bill.FindByID(ctx, billID)
	if err != nil {
		return nil, lookup(err, msgBillNotFound)
	}
	if billOwner(b) != userID {
		return nil, forbidden("You can only pay your own bills")
	}
	return s.ProcessPayment(ctx, billID)
}

func (s *BillingService) archiveAsync(billID uint) {
	if s.archiver == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.archiver.ArchiveInvoice(ctx, billID); err != nil {
			s.logger.Warn("archive invoice failed", zap.Uint("bill_id", billID), zap.Error(err))
		}
	}()
}

// CustomerBills bills of the user's vehicles, newest first
func (s *BillingService) CustomerBills(ctx context.Context, userID string) ([]entity.Bill, error) {
	cust, err := s.repos.Customer.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unprocessablef(msgNoCustomerProfile)
		}
		return nil, err
	}
	return s.repos.Bill.ListForCustomer(ctx, cust.ID)
}

// GetBill managers see any bill, customers only their own.
func (s *BillingService) GetBill(ctx context.Context, billID uint, userID, role string) (*entity.Bill, error) {
	b, err := s.repos.Bill.FindByID(ctx, billID)
	if err != nil {
		return nil, lookup(err, msgBillNotFound)
	}
	switch role {
	case entity.RoleManager:
		return b, nil
	case entity.RoleCustomer:
		if billOwner(b) == userID {
			return b, nil
		}
	}
	return nil, forbidden("You are not allowed to view this bill")
}

func billOwner(b *entity.Bill) string {
	if b.ServiceRequest == nil {
		return ""
	}
	return b.ServiceRequest.OwnerUserID()
}
