package service

import (
	"context"
	"testing"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBill(t *testing.T) {
	oil := &entity.Part{Price: decimal.RequireFromString("333.33")}
	bulb := &entity.Part{Price: decimal.RequireFromString("12.50")}
	usages := []entity.PartUsage{
		{Quantity: 3, Part: oil},
		{Quantity: 2, Part: bulb},
		{Quantity: 9}, // part no longer loadable
	}

	got := ComputeBill(usages, decimal.RequireFromString("750"))
	assert.Equal(t, "1024.99", got.Parts.StringFixed(2))
	assert.Equal(t, "750.00", got.Labour.StringFixed(2))
	assert.Equal(t, "319.50", got.Tax.StringFixed(2))
	assert.Equal(t, "2094.49", got.Total.StringFixed(2))

	empty := ComputeBill(nil, DefaultLabourCharge)
	assert.Equal(t, "590.00", empty.Total.StringFixed(2))

	// 18% of 500.05 is 90.009; stored amounts are whole cents
	cents := ComputeBill([]entity.PartUsage{{Quantity: 1, Part: &entity.Part{Price: decimal.RequireFromString("0.05")}}}, DefaultLabourCharge)
	assert.True(t, cents.Tax.Equal(decimal.RequireFromString("90.01")))
	assert.True(t, cents.Total.Equal(decimal.RequireFromString("590.06")))
}

func TestGenerateBill(t *testing.T) {
	env := newTestEnv(t, allowNegative)
	ctx := context.Background()
	tech := testutil.SeedUser(t, env.db, "Tariq Tech", entity.RoleTechnician, true)
	owner, _, vehicle := testutil.SeedCustomer(t, env.db, "Carl Customer")
	testutil.SeedCategory(t, env.db, entity.DefaultServiceType, "800.00")
	open := testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusInProgress, tech)
	done := testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusCompleted, tech)

	_, _, err := env.billing.GenerateBill(ctx, 9999, tech.ID)
	requireKind(t, err, ErrNotFound, "Service Request not found")

	_, _, err = env.billing.GenerateBill(ctx, open.ID, tech.ID)
	requireKind(t, err, ErrUnprocessable, "Bill can only be generated for Completed services")

	bill, created, err := env.billing.GenerateBill(ctx, done.ID, tech.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "800.00", bill.LabourCost.StringFixed(2))
	assert.Equal(t, "944.00", bill.TotalAmount.StringFixed(2))

	again, created, err := env.billing.GenerateBill(ctx, done.ID, "someone-else")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, bill.ID, again.ID)
	assert.Equal(t, tech.ID, again.CreatedBy)

	// only the first call notifies
	assert.Len(t, env.notifier.messagesFor(owner.ID), 1)
}

type recordingArchiver struct {
	done chan uint
}

func (a *recordingArchiver) ArchiveInvoice(_ context.Context, billID uint) error {
	a.done <- billID
	return nil
}

func TestProcessPayment(t *testing.T) {
	env := newTestEnv(t, allowNegative)
	ctx := context.Background()
	archiver := &recordingArchiver{done: make(chan uint, 1)}
	env.billing.SetInvoiceArchiver(archiver)

	tech := testutil.SeedUser(t, env.db, "Tariq Tech", entity.RoleTechnician, true)
	owner, _, vehicle := testutil.SeedCustomer(t, env.db, "Carl Customer")
	done := testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusCompleted, tech)
	bill, _, err := env.billing.GenerateBill(ctx, done.ID, tech.ID)
	require.NoError(t, err)

	_, err = env.billing.ProcessPayment(ctx, 9999)
	requireKind(t, err, ErrNotFound, "Bill not found")

	paid, err := env.billing.ProcessPayment(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPaid, paid.PaymentStatus)
	assert.NotNil(t, paid.PaidAt)
	assert.Equal(t, bill.ID, <-archiver.done)

	req := env.reload(t, done.ID)
	assert.Equal(t, entity.StatusClosed, req.Status)
	rows := env.history(t, done.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.StatusCompleted, rows[0].OldStatus)
	assert.Equal(t, entity.StatusClosed, rows[0].NewStatus)
	assert.Equal(t, "System", rows[0].ChangedBy)

	msgs := env.notifier.messagesFor(owner.ID)
	assert.Contains(t, msgs, "Payment successful for Bill #"+itoa(bill.ID)+". Service Request is now Closed.")

	// second payment is a no-op
	again, err := env.billing.ProcessPayment(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPaid, again.PaymentStatus)
	assert.Len(t, env.history(t, done.ID), 1)
	assert.Len(t, env.notifier.messagesFor(owner.ID), len(msgs))
}

func TestPayOwnBillAndGetBill(t *testing.T) {
	env := newTestEnv(t, allowNegative)
	ctx := context.Background()
	tech := testutil.SeedUser(t, env.db, "Tariq Tech", entity.RoleTechnician, true)
	owner, _, vehicle := testutil.SeedCustomer(t, env.db, "Carl Customer")
	stranger, _, _ := testutil.SeedCustomer(t, env.db, "Sam Stranger")
	manager := testutil.SeedUser(t, env.db, "Mona Manager", entity.RoleManager, true)
	done := testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusCompleted, tech)
	bill, _, err := env.billing.GenerateBill(ctx, done.ID, tech.ID)
	require.NoError(t, err)

	_, err = env.billing.GetBill(ctx, bill.ID, stranger.ID, entity.RoleCustomer)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = env.billing.GetBill(ctx, bill.ID, tech.ID, entity.RoleTechnician)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = env.billing.GetBill(ctx, bill.ID, manager.ID, entity.RoleManager)
	require.NoError(t, err)
	got, err := env.billing.GetBill(ctx, bill.ID, owner.ID, entity.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, got.ID)

	_, err = env.billing.PayOwnBill(ctx, bill.ID, stranger.ID)
	require.ErrorIs(t, err, ErrForbidden)
	paid, err := env.billing.PayOwnBill(ctx, bill.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPaid, paid.PaymentStatus)

	bills, err := env.billing.CustomerBills(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, entity.PaymentPaid, bills[0].PaymentStatus)
}
