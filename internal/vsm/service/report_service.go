package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportPoint one label/value pair of a chart series
type ReportPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ReportService manager reports. Grouping happens in Go so every dialect behaves the same.
type ReportService struct {
	repos *repository.Repositories
}

func NewReportService(repos *repository.Repositories) *ReportService {
	return &ReportService{repos: repos}
}

// DailyTrend requests per request day
func (s *ReportService) DailyTrend(ctx context.Context, f repository.ReportFilter) ([]ReportPoint, error) {
	items, err := s.repos.Request.ListForReport(ctx, f)
	if err != nil {
		return nil, err
	}
	counts := map[string]float64{}
	for _, r := range items {
		counts[r.RequestDate.Format("2006-01-02")]++
	}
	return sortedPoints(counts, true), nil
}

// MonthlyRevenue bill totals per generation month
func (s *ReportService) MonthlyRevenue(ctx context.Context, f repository.ReportFilter) ([]ReportPoint, error) {
	bills, err := s.repos.Bill.ListGeneratedBetween(ctx, f.From, f.To)
	if err != nil {
		return nil, err
	}
	totals := map[string]decimal.Decimal{}
	for _, b := range bills {
		if !billMatches(b, f) {
			continue
		}
		key := fmt.Sprintf("%d-%02d", b.GeneratedAt.Year(), int(b.GeneratedAt.Month()))
		totals[key] = totals[key].Add(b.TotalAmount)
	}
	values := make(map[string]float64, len(totals))
	for k, v := range totals {
		values[k] = v.InexactFloat64()
	}
	return sortedPoints(values, true), nil
}

func billMatches(b entity.Bill, f repository.ReportFilter) bool {
	r := b.ServiceRequest
	if r == nil {
		return f.Category == "" && f.TechnicianID == "" && f.Priority == ""
	}
	if f.Category != "" && r.ServiceType != f.Category {
		return false
	}
	if f.TechnicianID != "" && (r.TechnicianID == nil || *r.TechnicianID != f.TechnicianID) {
		return false
	}
	if f.Priority != "" && r.Priority != f.Priority {
		return false
	}
	return true
}

// TechnicianPerformance Completed jobs per technician name; the technician filter does not apply
func (s *ReportService) TechnicianPerformance(ctx context.Context, f repository.ReportFilter) ([]ReportPoint, error) {
	f.TechnicianID = ""
	items, err := s.repos.Request.ListForReport(ctx, f)
	if err != nil {
		return nil, err
	}
	counts := map[string]float64{}
	for _, r := range items {
		if r.Status != entity.StatusCompleted || r.TechnicianName == "" {
			continue
		}
		counts[r.TechnicianName]++
	}
	return sortedPoints(counts, false), nil
}

// StatusDistribution requests per status
func (s *ReportService) StatusDistribution(ctx context.Context, f repository.ReportFilter) ([]ReportPoint, error) {
	items, err := s.repos.Request.ListForReport(ctx, f)
	if err != nil {
		return nil, err
	}
	counts := map[string]float64{}
	for _, r := range items {
		counts[string(r.Status)]++
	}
	return sortedPoints(counts, false), nil
}

// CategoryAnalysis requests per service type; the category filter does not apply
func (s *ReportService) CategoryAnalysis(ctx context.Context, f repository.ReportFilter) ([]ReportPoint, error) {
	f.Category = ""
	items, err := s.repos.Request.ListForReport(ctx, f)
	if err != nil {
		return nil, err
	}
	counts := map[string]float64{}
	for _, r := range items {
		counts[r.ServiceType]++
	}
	return sortedPoints(counts, false), nil
}

// sortedPoints orders by label when byLabel, otherwise by value descending then label.
func sortedPoints(m map[string]float64, byLabel bool) []ReportPoint {
	out := make([]ReportPoint, 0, len(m))
	for k, v := range m {
		out = append(out, ReportPoint{Label: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if byLabel || out[i].Value == out[j].Value {
			return out[i].Label < out[j].Label
		}
		return out[i].Value > out[j].Value
	})
	return out
}

// Export writes all five reports into one workbook, one sheet each.
func (s *ReportService) Export(ctx context.Context, f repository.ReportFilter) (*excelize.File, string, error) {
	reports := []struct {
		sheet  string
		header string
		load   func(context.Context, repository.ReportFilter) ([]ReportPoint, error)
	}{
		{"Daily Trend", "Requests", s.DailyTrend},
		{"Monthly Revenue", "Revenue", s.MonthlyRevenue},
		{"Technician Performance", "Completed Jobs", s.TechnicianPerformance},
		{"Status Distribution", "Requests", s.StatusDistribution},
		{"Category Analysis", "Requests", s.CategoryAnalysis},
	}

	xf := excelize.NewFile()
	headerStyle, _ := xf.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, r := range reports {
		points, err := r.load(ctx, f)
		if err != nil {
			xf.Close()
			return nil, "", fmt.Errorf("%s: %w", r.sheet, err)
		}
		if i == 0 {
			xf.SetSheetName("Sheet1", r.sheet)
		} else if _, err := xf.NewSheet(r.sheet); err != nil {
			xf.Close()
			return nil, "", fmt.Errorf("new sheet: %w", err)
		}
		xf.SetCellValue(r.sheet, "A1", "Label")
		xf.SetCellValue(r.sheet, "B1", r.header)
		xf.SetCellStyle(r.sheet, "A1", "B1", headerStyle)
		for idx, p := range points {
			row := idx + 2
			xf.SetCellValue(r.sheet, fmt.Sprintf("A%d", row), p.Label)
			xf.SetCellValue(r.sheet, fmt.Sprintf("B%d", row), p.Value)
		}
		xf.SetColWidth(r.sheet, "A", "A", 28)
		xf.SetColWidth(r.sheet, "B", "B", 16)
	}

	filename := fmt.Sprintf("VSM_Reports_%s.xlsx", time.Now().Format("20060102"))
	return xf, filename, nil
}
