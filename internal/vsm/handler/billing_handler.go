package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/service"
)

// BillingHandler bills, payment and invoice download
type BillingHandler struct {
	billing  *service.BillingService
	invoices *service.InvoiceService
}

func NewBillingHandler(billing *service.BillingService, invoices *service.InvoiceService) *BillingHandler {
	return &BillingHandler{billing: billing, invoices: invoices}
}

// MyBills GET /billing/my-bills
func (h *BillingHandler) MyBills(c *gin.Context) {
	items, err := h.billing.CustomerBills(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Pay POST /billing/pay/:billId
func (h *BillingHandler) Pay(c *gin.Context) {
	id, ok := paramID(c, "billId")
	if !ok {
		return
	}
	bill, err := h.billing.PayOwnBill(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"message": "Payment Successful", "bill": bill})
}

// Get GET /billing/:billId
func (h *BillingHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "billId")
	if !ok {
		return
	}
	bill, err := h.billing.GetBill(c.Request.Context(), id, GetUserID(c), GetRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, bill)
}

// Invoice GET /billing/:billId/invoice
func (h *BillingHandler) Invoice(c *gin.Context) {
	id, ok := paramID(c, "billId")
	if !ok {
		return
	}
	f, filename, err := h.invoices.Download(c.Request.Context(), id, GetUserID(c), GetRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "Failed to write invoice")
	}
}
