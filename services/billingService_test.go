package services

import (
	"CarePoint/models"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func pendingBill(id uint, quantity int, unitPrice float64) *models.Bill {
	bill := &models.Bill{
		ID:        id,
		PatientID: "P-1",
		BillType:  models.BillConsultation,
		ItemName:  "Consultation",
		Quantity:  quantity,
		UnitPrice: unitPrice,
		DueDate:   time.Now().AddDate(0, 0, 14).Format(models.DateLayout),
		Status:    models.BillPending,
	}
	bill.ComputeTotals()
	return bill
}

func TestCreateBillComputesDerivedAmounts(t *testing.T) {
	bills := new(mockBillStore)
	bills.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewBillingService(bills, newKeyedLocker())

	bill := &models.Bill{
		PatientID:      "P-1",
		BillType:       models.BillProcedure,
		ItemName:       "Suture removal",
		Quantity:       2,
		UnitPrice:      50,
		DiscountAmount: 10,
		TaxAmount:      9,
		DueDate:        time.Now().AddDate(0, 0, 14).Format(models.DateLayout),
	}
	err := svc.CreateBill(context.Background(), bill)
	assert.NoError(t, err)
	assert.Equal(t, models.BillPending, bill.Status)
	assert.Equal(t, models.PaymentPending, bill.PaymentStatus)
	assert.Equal(t, 99.0, bill.FinalAmount)
	assert.Equal(t, 0.0, bill.PaidAmount)
}

func TestCreateBillRejectsInvalidInput(t *testing.T) {
	svc := NewBillingService(new(mockBillStore), newKeyedLocker())

	err := svc.CreateBill(context.Background(), &models.Bill{PatientID: "P-1"})
	assert.True(t, errors.Is(err, ErrValidation))

	started := pendingBill(0, 1, 50)
	started.Status = models.BillApproved
	err = svc.CreateBill(context.Background(), started)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestAddPaymentMirrorsStatusInSingleWrite(t *testing.T) {
	bill := pendingBill(1, 2, 50)
	bills := new(mockBillStore)
	bills.On("GetForUpdate", mock.Anything, uint(1)).Return(bill, nil)
	var persisted *models.Bill
	bills.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		persisted = args.Get(1).(*models.Bill)
	}).Return(nil)

	svc := NewBillingService(bills, newKeyedLocker())

	updated, err := svc.AddPayment(context.Background(), 1, 60, models.MethodCash, "RCPT-1")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentPartiallyPaid, updated.PaymentStatus)
	assert.Equal(t, models.BillPartiallyPaid, updated.Status)
	assert.Equal(t, 40.0, updated.RemainingAmount)
	// The persisted record already carries both derived statuses.
	assert.Same(t, updated, persisted)

	updated, err = svc.AddPayment(context.Background(), 1, 40, models.MethodCash, "RCPT-2")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, models.BillPaid, updated.Status)
	assert.Equal(t, 0.0, updated.RemainingAmount)
}

func TestAddPaymentBypassesCachedRead(t *testing.T) {
	bill := pendingBill(1, 2, 50)
	bills := new(mockBillStore)
	bills.On("GetForUpdate", mock.Anything, uint(1)).Return(bill, nil)
	bills.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewBillingService(bills, newKeyedLocker())

	_, err := svc.AddPayment(context.Background(), 1, 60, models.MethodCash, "RCPT-1")
	assert.NoError(t, err)
	// paidAmount accumulates from the committed row, never a cached copy.
	bills.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAddPaymentRejectsNonPositiveAmount(t *testing.T) {
	svc := NewBillingService(new(mockBillStore), newKeyedLocker())
	_, err := svc.AddPayment(context.Background(), 1, 0, models.MethodCash, "")
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = svc.AddPayment(context.Background(), 1, -5, models.MethodCash, "")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestAddPaymentRejectedOnClosedBill(t *testing.T) {
	cancelled := pendingBill(1, 1, 50)
	cancelled.Status = models.BillCancelled
	bills := new(mockBillStore)
	bills.On("GetForUpdate", mock.Anything, uint(1)).Return(cancelled, nil)

	svc := NewBillingService(bills, newKeyedLocker())

	_, err := svc.AddPayment(context.Background(), 1, 10, models.MethodCash, "")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	bills.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestApplyDiscountRejectedAfterApproval(t *testing.T) {
	approved := pendingBill(1, 1, 100)
	approved.Status = models.BillApproved
	bills := new(mockBillStore)
	bills.On("GetForUpdate", mock.Anything, uint(1)).Return(approved, nil)

	svc := NewBillingService(bills, newKeyedLocker())

	_, err := svc.ApplyDiscount(context.Background(), 1, 10, 0)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestApplyDiscountExplicitAmountClearsPercentage(t *testing.T) {
	bill := pendingBill(1, 1, 100)
	bills := new(mockBillStore)
	bills.On("GetForUpdate", mock.Anything, uint(1)).Return(bill, nil)
	bills.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewBillingService(bills, newKeyedLocker())

	updated, err := svc.ApplyDiscount(context.Background(), 1, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, 10.0, updated.DiscountAmount)
	assert.Equal(t, 90.0, updated.FinalAmount)

	// An explicit amount replaces the percentage outright.
	updated, err = svc.ApplyDiscount(context.Background(), 1, 10, 15)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, updated.DiscountPercentage)
	assert.Equal(t, 15.0, updated.DiscountAmount)
	assert.Equal(t, 85.0, updated.FinalAmount)

	// Both zero removes the discount entirely.
	updated, err = svc.ApplyDiscount(context.Background(), 1, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, updated.DiscountAmount)
	assert.Equal(t, 100.0, updated.FinalAmount)
}

func TestApplyWaiverRecomputesTotals(t *testing.T) {
	bill := pendingBill(1, 1, 100)
	bills := new(mockBillStore)
	bills.On("GetForUpdate", mock.Anything, uint(1)).Return(bill, nil)
	bills.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewBillingService(bills, newKeyedLocker())

	updated, err := svc.ApplyWaiver(context.Background(), 1, 25, "hardship")
	assert.NoError(t, err)
	assert.Equal(t, 75.0, updated.FinalAmount)
	assert.Equal(t, "hardship", updated.WaiverReason)
}

func TestApproveThenCancelAndRefundGuards(t *testing.T) {
	bill := pendingBill(1, 1, 100)
	bills := new(mockBillStore)
	bills.On("GetForUpdate", mock.Anything, uint(1)).Return(bill, nil)
	bills.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewBillingService(bills, newKeyedLocker())

	updated, err := svc.Approve(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, models.BillApproved, updated.Status)

	_, err = svc.Approve(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	updated, err = svc.CancelBill(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, models.BillCancelled, updated.Status)
	assert.Equal(t, models.PaymentCancelled, updated.PaymentStatus)

	// Closed bills are never reopened.
	_, err = svc.Refund(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestGetByIDNotFound(t *testing.T) {
	bills := new(mockBillStore)
	bills.On("GetByID", mock.Anything, uint(42)).Return(nil, nil)

	svc := NewBillingService(bills, newKeyedLocker())

	_, err := svc.GetByID(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetOutstandingAmount(t *testing.T) {
	bills := new(mockBillStore)
	bills.On("SumOutstanding", mock.Anything, "P-1").Return(123.45, nil)

	svc := NewBillingService(bills, newKeyedLocker())

	outstanding, err := svc.GetOutstandingAmount(context.Background(), "P-1")
	assert.NoError(t, err)
	assert.Equal(t, 123.45, outstanding)
}
