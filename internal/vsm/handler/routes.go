package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/middleware"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
)

// RegisterRoutes mounts every VSM endpoint under v1 (normally /api/v1).
func RegisterRoutes(v1 *gin.RouterGroup, h *Handlers, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)
	admin := middleware.RequireRole(entity.RoleAdmin)
	manager := middleware.RequireRole(entity.RoleManager)
	technician := middleware.RequireRole(entity.RoleTechnician)
	customer := middleware.RequireRole(entity.RoleCustomer)

	// public auth endpoints
	public := v1.Group("/auth")
	{
		public.POST("/register", h.Auth.Register)
		public.POST("/login", h.Auth.Login)
		public.POST("/refresh", h.Auth.Refresh)
		public.POST("/logout", h.Auth.Logout)
	}

	// SSE accepts the token as a query param
	sseGroup := v1.Group("/sse")
	sseGroup.Use(auth)
	{
		sseGroup.GET("/events", h.SSE.Stream)
	}

	authorized := v1.Group("")
	authorized.Use(auth)
	{
		authorized.GET("/auth/profile", h.Auth.Profile)
		authorized.PUT("/auth/profile", h.Auth.UpdateProfile)
		authorized.POST("/auth/change-password", h.Auth.ChangePassword)

		vehicles := authorized.Group("/vehicles", customer)
		{
			vehicles.POST("", h.Customer.AddVehicle)
			vehicles.GET("", h.Customer.ListVehicles)
		}
		authorized.GET("/customers/profile", customer, h.Customer.Profile)

		services := authorized.Group("/services")
		{
			services.POST("/book", customer, h.Service.Book)
			services.GET("/history", customer, h.Service.MyHistory)
			services.GET("/stats", customer, h.Service.Stats)
			services.PUT("/cancel/:id", customer, h.Service.Cancel)
			services.PUT("/reschedule/:id", customer, h.Service.Reschedule)
			services.GET("/:id/history", h.Service.RequestHistory)
		}

		mgr := authorized.Group("/manager")
		{
			mgr.GET("/stats", manager, h.Manager.Stats)
			mgr.GET("/requests", manager, h.Manager.PendingRequests)
			mgr.GET("/technicians", manager, h.Manager.Technicians)
			mgr.GET("/technicians/availability", manager, h.Manager.Availability)
			mgr.PUT("/assign/:id", manager, h.Manager.Assign)

			parts := mgr.Group("/parts")
			{
				parts.GET("", middleware.RequireRole(entity.RoleManager, entity.RoleTechnician), h.Manager.ListParts)
				parts.GET("/low-stock", manager, h.Manager.LowStock)
				parts.POST("", manager, h.Manager.CreatePart)
				parts.PUT("/:id", manager, h.Manager.UpdatePart)
				parts.DELETE("/:id", manager, h.Manager.DeletePart)
				parts.GET("/:id/movements", manager, h.Manager.PartMovements)
			}
		}

		tech := authorized.Group("/technician", technician)
		{
			tech.GET("/tasks", h.Technician.Tasks)
			tech.PUT("/services/:id/status", h.Technician.UpdateStatus)
			tech.GET("/services/:id/parts", h.Technician.UsedParts)
			tech.POST("/services/:id/parts", h.Technician.UseParts)
		}

		billing := authorized.Group("/billing")
		{
			billing.GET("/my-bills", customer, h.Billing.MyBills)
			billing.POST("/pay/:billId", customer, h.Billing.Pay)
			billing.GET("/:billId", h.Billing.Get)
			billing.GET("/:billId/invoice", h.Billing.Invoice)
		}

		notifications := authorized.Group("/notifications")
		{
			notifications.GET("/my", h.Notification.My)
			notifications.GET("/unread-count", h.Notification.UnreadCount)
			notifications.PUT("/read-all", h.Notification.MarkAllRead)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
		}

		categories := authorized.Group("/service-categories")
		{
			categories.GET("", h.Category.List)
			categories.POST("", admin, h.Category.Create)
			categories.PUT("/:id", admin, h.Category.Update)
			categories.DELETE("/:id", admin, h.Category.Delete)
		}

		users := authorized.Group("/admin/users", admin)
		{
			users.GET("", h.Admin.ListUsers)
			users.POST("", h.Admin.CreateUser)
			users.PUT("/:id", h.Admin.UpdateUser)
			users.DELETE("/:id", h.Admin.Deactivate)
			users.PUT("/:id/activate", h.Admin.Activate)
		}

		reports := authorized.Group("/reports", manager)
		{
			reports.GET("/daily-trend", h.Report.DailyTrend)
			reports.GET("/monthly-revenue", h.Report.MonthlyRevenue)
			reports.GET("/technician-performance", h.Report.TechnicianPerformance)
			reports.GET("/status-distribution", h.Report.StatusDistribution)
			reports.GET("/category-analysis", h.Report.CategoryAnalysis)
			reports.GET("/export", h.Report.Export)
		}
	}
}
