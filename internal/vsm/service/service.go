package service

import (
	"github.com/redis/go-redis/v9"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/config"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/shared/pushgw"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/sse"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services VSM service set
type Services struct {
	Auth         *AuthService
	Customer     *CustomerService
	Admin        *AdminService
	Assignment   *AssignmentService
	Workflow     *WorkflowService
	Billing      *BillingService
	Invoice      *InvoiceService
	Part         *PartService
	Category     *CategoryService
	Notification *NotificationService
	Report       *ReportService
	Dashboard    *DashboardService
}

// NewServices wires the service set. store may be nil, which disables invoice archiving.
func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, hub *sse.Hub, store ObjectStore, logger *zap.Logger) *Services {
	notifySvc := NewNotificationService(repos.Notification, hub, logger)
	if cfg.Notify.GatewayURL != "" {
		notifySvc.SetPushClient(pushgw.NewClient(cfg.Notify.GatewayURL, cfg.Notify.AppID, cfg.Notify.AppSecret, cfg.Notify.Timeout))
	}

	billingSvc := NewBillingService(db, repos, notifySvc, logger)
	invoiceSvc := NewInvoiceService(repos, billingSvc, store)
	if store != nil {
		billingSvc.SetInvoiceArchiver(invoiceSvc)
	}

	workflowSvc := NewWorkflowService(db, repos, billingSvc, notifySvc, cfg.Workshop.StockPolicy)
	if hub != nil {
		workflowSvc.SetRequestPublisher(hub)
	}

	return &Services{
		Auth:         NewAuthService(db, repos, rdb, cfg),
		Customer:     NewCustomerService(repos),
		Admin:        NewAdminService(db, repos),
		Assignment:   NewAssignmentService(db, repos, notifySvc),
		Workflow:     workflowSvc,
		Billing:      billingSvc,
		Invoice:      invoiceSvc,
		Part:         NewPartService(db, repos.Part, cfg.Workshop.LowStockThreshold),
		Category:     NewCategoryService(repos.Category),
		Notification: notifySvc,
		Report:       NewReportService(repos),
		Dashboard:    NewDashboardService(repos),
	}
}
