package models

import (
	"math"
	"time"
)

// BillStatus enumerates the bill lifecycle.
type BillStatus string

const (
	BillDraft         BillStatus = "DRAFT"
	BillPending       BillStatus = "PENDING"
	BillApproved      BillStatus = "APPROVED"
	BillPaid          BillStatus = "PAID"
	BillPartiallyPaid BillStatus = "PARTIALLY_PAID"
	BillCancelled     BillStatus = "CANCELLED"
	BillRefunded      BillStatus = "REFUNDED"
)

// IsTerminal reports whether the bill can no longer change. A closed bill is
// never reopened.
func (s BillStatus) IsTerminal() bool {
	return s == BillCancelled || s == BillRefunded
}

// PaymentStatus tracks settlement independently of the bill status.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentPaid          PaymentStatus = "PAID"
	PaymentOverdue       PaymentStatus = "OVERDUE"
	PaymentCancelled     PaymentStatus = "CANCELLED"
)

// PaymentMethod enumerates accepted payment channels.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCreditCard   PaymentMethod = "CREDIT_CARD"
	MethodDebitCard    PaymentMethod = "DEBIT_CARD"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCheck        PaymentMethod = "CHECK"
	MethodInsurance    PaymentMethod = "INSURANCE"
	MethodOnline       PaymentMethod = "ONLINE"
)

// BillType enumerates billable item categories.
type BillType string

const (
	BillConsultation BillType = "CONSULTATION"
	BillMedication   BillType = "MEDICATION"
	BillProcedure    BillType = "PROCEDURE"
	BillDiagnostic   BillType = "DIAGNOSTIC"
	BillLaboratory   BillType = "LABORATORY"
	BillRadiology    BillType = "RADIOLOGY"
	BillEmergency    BillType = "EMERGENCY"
	BillMisc         BillType = "MISCELLANEOUS"
)

// Bill model. One billable line item tied to a patient, optionally to an appointment.
type Bill struct {
	ID                          uint          `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	BillNumber                  string        `gorm:"column:bill_number;unique;not null" json:"bill_number"`
	PatientID                   string        `gorm:"column:patient_id;not null;index" json:"patient_id"`
	AppointmentID               *uint         `gorm:"column:appointment_id;index" json:"appointment_id,omitempty"`
	BillDate                    string        `gorm:"column:bill_date;not null" json:"bill_date"`
	DueDate                     string        `gorm:"column:due_date;not null" json:"due_date"`
	BillType                    BillType      `gorm:"column:bill_type;not null" json:"bill_type"`
	ItemName                    string        `gorm:"column:item_name;not null" json:"item_name"`
	ItemDescription             string        `gorm:"column:item_description" json:"item_description"`
	Quantity                    int           `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice                   float64       `gorm:"column:unit_price;not null" json:"unit_price"`
	TotalAmount                 float64       `gorm:"column:total_amount;not null" json:"total_amount"`
	DiscountPercentage          float64       `gorm:"column:discount_percentage" json:"discount_percentage"`
	DiscountAmount              float64       `gorm:"column:discount_amount" json:"discount_amount"`
	TaxPercentage               float64       `gorm:"column:tax_percentage" json:"tax_percentage"`
	TaxAmount                   float64       `gorm:"column:tax_amount" json:"tax_amount"`
	IsInsuranceCovered          bool          `gorm:"column:is_insurance_covered;not null" json:"is_insurance_covered"`
	InsuranceClaimNumber        string        `gorm:"column:insurance_claim_number" json:"insurance_claim_number,omitempty"`
	InsuranceCoveragePercentage float64       `gorm:"column:insurance_coverage_percentage" json:"insurance_coverage_percentage"`
	InsuranceCoverageAmount     float64       `gorm:"column:insurance_coverage_amount" json:"insurance_coverage_amount"`
	WaivedAmount                float64       `gorm:"column:waived_amount" json:"waived_amount"`
	WaiverReason                string        `gorm:"column:waiver_reason" json:"waiver_reason,omitempty"`
	FinalAmount                 float64       `gorm:"column:final_amount;not null" json:"final_amount"`
	PatientPayable              float64       `gorm:"column:patient_payable;not null" json:"patient_payable"`
	PaidAmount                  float64       `gorm:"column:paid_amount;not null" json:"paid_amount"`
	RemainingAmount             float64       `gorm:"column:remaining_amount;not null" json:"remaining_amount"`
	Status                      BillStatus    `gorm:"column:status;not null;index" json:"status"`
	PaymentStatus               PaymentStatus `gorm:"column:payment_status;not null;index" json:"payment_status"`
	PaymentMethod               PaymentMethod `gorm:"column:payment_method" json:"payment_method,omitempty"`
	PaymentDate                 string        `gorm:"column:payment_date" json:"payment_date,omitempty"`
	PaymentReference            string        `gorm:"column:payment_reference" json:"payment_reference,omitempty"`
	CreatedAt                   time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient                     Patient       `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Bill) TableName() string {
	return "bill"
}

// roundCents rounds a monetary amount to two decimal places.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTotals recomputes every derived amount from the base fields. Explicit
// discount/insurance amounts win over percentages; a percentage fills in the
// amount when the amount is unset. The final amount never goes below zero.
func (b *Bill) ComputeTotals() {
	b.TotalAmount = roundCents(float64(b.Quantity) * b.UnitPrice)
	if b.DiscountAmount == 0 && b.DiscountPercentage > 0 {
		b.DiscountAmount = roundCents(b.TotalAmount * b.DiscountPercentage / 100)
	}
	if b.TaxAmount == 0 && b.TaxPercentage > 0 {
		b.TaxAmount = roundCents((b.TotalAmount - b.DiscountAmount) * b.TaxPercentage / 100)
	}
	if b.IsInsuranceCovered && b.InsuranceCoverageAmount == 0 && b.InsuranceCoveragePercentage > 0 {
		b.InsuranceCoverageAmount = roundCents(b.TotalAmount * b.InsuranceCoveragePercentage / 100)
	}
	final := b.TotalAmount - b.DiscountAmount + b.TaxAmount - b.InsuranceCoverageAmount - b.WaivedAmount
	if final < 0 {
		final = 0
	}
	b.FinalAmount = roundCents(final)
	b.PatientPayable = b.FinalAmount
	b.refreshRemaining()
}

// AddPayment accumulates a payment and recomputes the derived statuses.
// Deliberately not idempotent: every call is an additional payment.
func (b *Bill) AddPayment(amount float64) {
	b.PaidAmount = roundCents(b.PaidAmount + amount)
	b.updatePaymentStatus()
	b.refreshRemaining()
}

// updatePaymentStatus derives paymentStatus from the accumulated total and
// mirrors the bill status once fully settled. Overpayment counts as paid in
// full; the excess is not tracked as credit.
func (b *Bill) updatePaymentStatus() {
	switch {
	case b.PaidAmount == 0:
		b.PaymentStatus = PaymentPending
	case b.PaidAmount >= b.FinalAmount:
		b.PaymentStatus = PaymentPaid
		b.Status = BillPaid
	default:
		b.PaymentStatus = PaymentPartiallyPaid
		b.Status = BillPartiallyPaid
	}
}

// refreshRemaining recomputes the unpaid balance, clamped at zero once the
// bill is settled.
func (b *Bill) refreshRemaining() {
	remaining := roundCents(b.FinalAmount - b.PaidAmount)
	if remaining < 0 {
		remaining = 0
	}
	b.RemainingAmount = remaining
}

// IsPaid keeps the status check and the arithmetic check as two equivalent
// conditions.
func (b *Bill) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid || b.PaidAmount >= b.FinalAmount
}

func (b *Bill) IsPartiallyPaid() bool {
	return b.PaymentStatus == PaymentPartiallyPaid
}

// IsOverdue reports whether the due date has passed with the bill still unpaid.
func (b *Bill) IsOverdue() bool {
	due, err := time.ParseInLocation(DateLayout, b.DueDate, time.Local)
	if err != nil {
		return false
	}
	return time.Now().After(due.Add(24*time.Hour)) && !b.IsPaid()
}

// PaymentProgress returns the settled share of the final amount as a
// percentage. Zero-amount bills report zero.
func (b *Bill) PaymentProgress() float64 {
	if b.FinalAmount == 0 {
		return 0
	}
	return b.PaidAmount / b.FinalAmount * 100
}

// CanApplyDiscount reports whether discounts and waivers may still be applied.
func (b *Bill) CanApplyDiscount() bool {
	return b.Status == BillDraft || b.Status == BillPending
}
