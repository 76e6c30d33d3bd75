package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ObjectStore where archived invoices go
type ObjectStore interface {
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
}

// InvoiceService renders bills as xlsx invoices
type InvoiceService struct {
	repos   *repository.Repositories
	billing *BillingService
	store   ObjectStore
}

func NewInvoiceService(repos *repository.Repositories, billing *BillingService, store ObjectStore) *InvoiceService {
	return &InvoiceService{repos: repos, billing: billing, store: store}
}

// Download renders the invoice of a bill the caller may view.
func (s *InvoiceService) Download(ctx context.Context, billID uint, userID, role string) (*excelize.File, string, error) {
	bill, err := s.billing.GetBill(ctx, billID, userID, role)
	if err != nil {
		return nil, "", err
	}
	return s.render(ctx, bill)
}

// ArchiveInvoice renders the bill and uploads it to the object store.
func (s *InvoiceService) ArchiveInvoice(ctx context.Context, billID uint) error {
	if s.store == nil {
		return nil
	}
	bill, err := s.repos.Bill.FindByID(ctx, billID)
	if err != nil {
		return lookup(err, msgBillNotFound)
	}
	f, filename, err := s.render(ctx, bill)
	if err != nil {
		return err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("write invoice: %w", err)
	}
	objectName := fmt.Sprintf("invoices/%s/%s", bill.GeneratedAt.Format("2006/01"), filename)
	return s.store.Put(ctx, objectName, bytes.NewReader(buf.Bytes()), int64(buf.Len()), xlsxContentType)
}

func (s *InvoiceService) render(ctx context.Context, bill *entity.Bill) (*excelize.File, string, error) {
	usages, err := s.repos.Part.ListUsages(ctx, bill.ServiceRequestID)
	if err != nil {
		return nil, "", fmt.Errorf("list part usages: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Invoice"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Invoice #%d", bill.ID))
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetCellValue(sheet, "A2", "Service Request")
	f.SetCellValue(sheet, "B2", bill.ServiceRequestID)
	f.SetCellValue(sheet, "A3", "Generated")
	f.SetCellValue(sheet, "B3", bill.GeneratedAt.Format("2006-01-02 15:04"))
	f.SetCellValue(sheet, "A4", "Payment Status")
	f.SetCellValue(sheet, "B4", bill.PaymentStatus)
	if req := bill.ServiceRequest; req != nil {
		f.SetCellValue(sheet, "A5", "Service Type")
		f.SetCellValue(sheet, "B5", req.ServiceType)
		if req.Vehicle != nil {
			f.SetCellValue(sheet, "A6", "Vehicle")
			f.SetCellValue(sheet, "B6", fmt.Sprintf("%s %s", req.Vehicle.RegistrationNumber, req.Vehicle.Model))
		}
	}

	headers := []string{"Part", "Unit Price", "Quantity", "Amount"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "8"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}
	row := 9
	for _, u := range usages {
		if u.Part == nil {
			continue
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), u.Part.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), u.Part.Price.StringFixed(2))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), u.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), u.Part.Price.Mul(decimal.NewFromInt(int64(u.Quantity))).StringFixed(2))
		row++
	}

	row++
	summary := []struct {
		label string
		value string
	}{
		{"Parts", bill.PartsCost.StringFixed(2)},
		{"Labour", bill.LabourCost.StringFixed(2)},
		{"Tax (18%)", bill.TaxAmount.StringFixed(2)},
		{"Total", bill.TotalAmount.StringFixed(2)},
	}
	for _, line := range summary {
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), line.label)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), line.value)
		row++
	}
	f.SetCellStyle(sheet, fmt.Sprintf("C%d", row-1), fmt.Sprintf("D%d", row-1), boldStyle)

	colWidths := []float64{28, 14, 10, 14}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	return f, fmt.Sprintf("Invoice_%d.xlsx", bill.ID), nil
}
