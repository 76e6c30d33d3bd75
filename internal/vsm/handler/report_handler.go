package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/service"
)

// ReportHandler manager reports
type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// parseFilter reads from/to (YYYY-MM-DD), category, technician_id and priority.
// "to" covers the whole day.
func parseFilter(c *gin.Context) (repository.ReportFilter, bool) {
	f := repository.ReportFilter{
		Category:     c.Query("category"),
		TechnicianID: c.Query("technician_id"),
		Priority:     c.Query("priority"),
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			BadRequest(c, "Invalid from date")
			return f, false
		}
		f.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			BadRequest(c, "Invalid to date")
			return f, false
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	return f, true
}

type reportFunc func(context.Context, repository.ReportFilter) ([]service.ReportPoint, error)

func (h *ReportHandler) serve(c *gin.Context, fn reportFunc) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	points, err := fn(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": points})
}

// DailyTrend GET /reports/daily-trend
func (h *ReportHandler) DailyTrend(c *gin.Context) {
	h.serve(c, h.svc.DailyTrend)
}

// MonthlyRevenue GET /reports/monthly-revenue
func (h *ReportHandler) MonthlyRevenue(c *gin.Context) {
	h.serve(c, h.svc.MonthlyRevenue)
}

// TechnicianPerformance GET /reports/technician-performance
func (h *ReportHandler) TechnicianPerformance(c *gin.Context) {
	h.serve(c, h.svc.TechnicianPerformance)
}

// StatusDistribution GET /reports/status-distribution
func (h *ReportHandler) StatusDistribution(c *gin.Context) {
	h.serve(c, h.svc.StatusDistribution)
}

// CategoryAnalysis GET /reports/category-analysis
func (h *ReportHandler) CategoryAnalysis(c *gin.Context) {
	h.serve(c, h.svc.CategoryAnalysis)
}

// Export GET /reports/export
func (h *ReportHandler) Export(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	book, filename, err := h.svc.Export(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	defer book.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")
	if err := book.Write(c.Writer); err != nil {
		InternalError(c, "Failed to write report")
	}
}
