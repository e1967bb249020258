package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	bill := &Bill{
		Quantity:       2,
		UnitPrice:      50,
		DiscountAmount: 10,
		TaxAmount:      9,
	}
	bill.ComputeTotals()

	assert.Equal(t, 100.0, bill.TotalAmount)
	assert.Equal(t, 99.0, bill.FinalAmount)
	assert.Equal(t, 99.0, bill.PatientPayable)
	assert.Equal(t, 99.0, bill.RemainingAmount)
}

func TestComputeTotalsPercentageFillsAmount(t *testing.T) {
	bill := &Bill{
		Quantity:           1,
		UnitPrice:          200,
		DiscountPercentage: 10,
	}
	bill.ComputeTotals()

	assert.Equal(t, 20.0, bill.DiscountAmount)
	assert.Equal(t, 180.0, bill.FinalAmount)
}

func TestComputeTotalsExplicitAmountWinsOverPercentage(t *testing.T) {
	bill := &Bill{
		Quantity:           1,
		UnitPrice:          200,
		DiscountPercentage: 10,
		DiscountAmount:     50,
	}
	bill.ComputeTotals()

	assert.Equal(t, 50.0, bill.DiscountAmount)
	assert.Equal(t, 150.0, bill.FinalAmount)
}

func TestComputeTotalsNeverNegative(t *testing.T) {
	bill := &Bill{
		Quantity:     1,
		UnitPrice:    30,
		WaivedAmount: 100,
	}
	bill.ComputeTotals()

	assert.Equal(t, 0.0, bill.FinalAmount)
	assert.Equal(t, 0.0, bill.RemainingAmount)
}

func TestComputeTotalsInsuranceCoverage(t *testing.T) {
	bill := &Bill{
		Quantity:                    1,
		UnitPrice:                   500,
		IsInsuranceCovered:          true,
		InsuranceCoveragePercentage: 80,
	}
	bill.ComputeTotals()

	assert.Equal(t, 400.0, bill.InsuranceCoverageAmount)
	assert.Equal(t, 100.0, bill.FinalAmount)
}

func TestAddPaymentPartialThenFull(t *testing.T) {
	bill := &Bill{Quantity: 2, UnitPrice: 50, DiscountAmount: 10, TaxAmount: 9, Status: BillPending}
	bill.ComputeTotals()

	bill.AddPayment(60)
	assert.Equal(t, PaymentPartiallyPaid, bill.PaymentStatus)
	assert.Equal(t, BillPartiallyPaid, bill.Status)
	assert.Equal(t, 39.0, bill.RemainingAmount)
	assert.False(t, bill.IsPaid())

	bill.AddPayment(39)
	assert.Equal(t, PaymentPaid, bill.PaymentStatus)
	assert.Equal(t, BillPaid, bill.Status)
	assert.Equal(t, 0.0, bill.RemainingAmount)
	assert.True(t, bill.IsPaid())
}

func TestAddPaymentOverpaymentClampsRemaining(t *testing.T) {
	bill := &Bill{Quantity: 1, UnitPrice: 50, Status: BillPending}
	bill.ComputeTotals()

	bill.AddPayment(80)
	assert.Equal(t, PaymentPaid, bill.PaymentStatus)
	assert.Equal(t, 80.0, bill.PaidAmount)
	assert.Equal(t, 0.0, bill.RemainingAmount)
}

func TestAddPaymentAccumulates(t *testing.T) {
	bill := &Bill{Quantity: 1, UnitPrice: 100, Status: BillPending}
	bill.ComputeTotals()

	bill.AddPayment(40)
	bill.AddPayment(40)
	assert.Equal(t, 80.0, bill.PaidAmount)
	assert.Equal(t, PaymentPartiallyPaid, bill.PaymentStatus)
}

func TestPaymentProgressZeroFinalAmount(t *testing.T) {
	bill := &Bill{}
	assert.Equal(t, 0.0, bill.PaymentProgress())
}

func TestIsOverdue(t *testing.T) {
	pastDue := time.Now().AddDate(0, 0, -3).Format(DateLayout)
	futureDue := time.Now().AddDate(0, 0, 3).Format(DateLayout)

	unpaid := &Bill{Quantity: 1, UnitPrice: 100, DueDate: pastDue, Status: BillPending}
	unpaid.ComputeTotals()
	assert.True(t, unpaid.IsOverdue())

	paid := &Bill{Quantity: 1, UnitPrice: 100, DueDate: pastDue, Status: BillPending}
	paid.ComputeTotals()
	paid.AddPayment(100)
	assert.False(t, paid.IsOverdue())

	notYetDue := &Bill{Quantity: 1, UnitPrice: 100, DueDate: futureDue, Status: BillPending}
	notYetDue.ComputeTotals()
	assert.False(t, notYetDue.IsOverdue())
}

func TestCanApplyDiscount(t *testing.T) {
	assert.True(t, (&Bill{Status: BillDraft}).CanApplyDiscount())
	assert.True(t, (&Bill{Status: BillPending}).CanApplyDiscount())
	assert.False(t, (&Bill{Status: BillApproved}).CanApplyDiscount())
	assert.False(t, (&Bill{Status: BillPaid}).CanApplyDiscount())
}

func TestBillStatusIsTerminal(t *testing.T) {
	assert.True(t, BillCancelled.IsTerminal())
	assert.True(t, BillRefunded.IsTerminal())
	assert.False(t, BillPaid.IsTerminal())
	assert.False(t, BillPending.IsTerminal())
}
