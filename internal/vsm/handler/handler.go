package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/middleware"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/service"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/sse"
	"go.uber.org/zap"
)

// Handlers all VSM handlers
type Handlers struct {
	Auth         *AuthHandler
	Customer     *CustomerHandler
	Service      *ServiceHandler
	Manager      *ManagerHandler
	Technician   *TechnicianHandler
	Billing      *BillingHandler
	Notification *NotificationHandler
	Category     *CategoryHandler
	Admin        *AdminHandler
	Report       *ReportHandler
	SSE          *SSEHandler
}

// NewHandlers builds every handler from the service set
func NewHandlers(svc *service.Services, hub *sse.Hub, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	errLog = logger.Named("http")
	return &Handlers{
		Auth:         NewAuthHandler(svc.Auth),
		Customer:     NewCustomerHandler(svc.Customer),
		Service:      NewServiceHandler(svc.Workflow),
		Manager:      NewManagerHandler(svc.Assignment, svc.Dashboard, svc.Part),
		Technician:   NewTechnicianHandler(svc.Workflow),
		Billing:      NewBillingHandler(svc.Billing, svc.Invoice),
		Notification: NewNotificationHandler(svc.Notification),
		Category:     NewCategoryHandler(svc.Category),
		Admin:        NewAdminHandler(svc.Admin),
		Report:       NewReportHandler(svc.Report),
		SSE:          NewSSEHandler(hub),
	}
}

// Response common response envelope
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 200 with code 0
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 with code 0
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes code with HTTP status code/100
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 40000
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized 40100
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// InternalError 50000
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

var errLog = zap.NewNop()

// respondError maps a domain error kind to its response code
func respondError(c *gin.Context, err error) {
	var de *service.Error
	if !errors.As(err, &de) {
		errLog.Error("unhandled error",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.CtxRequestID)),
			zap.Error(err))
		InternalError(c, "Internal server error")
		return
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		Error(c, 40400, de.Message)
	case errors.Is(err, service.ErrCapacityExhausted):
		Error(c, 40910, de.Message)
	case errors.Is(err, service.ErrConflict):
		Error(c, 40900, de.Message)
	case errors.Is(err, service.ErrForbidden):
		Error(c, 40300, de.Message)
	case errors.Is(err, service.ErrUnprocessable):
		Error(c, 42200, de.Message)
	case errors.Is(err, service.ErrUnauthorized):
		Error(c, 40100, de.Message)
	default:
		InternalError(c, de.Message)
	}
}

// GetUserID authenticated user id
func GetUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

// GetRole first role of the token; every VSM user holds exactly one
func GetRole(c *gin.Context) string {
	value, _ := c.Get(middleware.CtxRoles)
	if roles, ok := value.([]string); ok && len(roles) > 0 {
		return roles[0]
	}
	return ""
}

// paramID parses a numeric path parameter, answering 40000 on failure
func paramID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}
