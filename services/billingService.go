package services

import (
	"CarePoint/models"
	"CarePoint/utils"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// BillStore is the slice of the persistence gateway the billing engine needs.
type BillStore interface {
	Create(ctx context.Context, bill *models.Bill) error
	GetByID(ctx context.Context, id uint) (*models.Bill, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Bill, error)
	Update(ctx context.Context, bill *models.Bill) error
	GetByPatient(ctx context.Context, patientID string, page, size int) ([]models.Bill, error)
	SumOutstanding(ctx context.Context, patientID string) (float64, error)
	GetOverdue(ctx context.Context, before string) ([]models.Bill, error)
	TotalBilledInPeriod(ctx context.Context, start, end string) (float64, error)
	TotalCollectedInPeriod(ctx context.Context, start, end string) (float64, error)
}

// BillingService owns bill amount computation and the payment state machine.
type BillingService struct {
	bills  BillStore
	locker Locker
}

func NewBillingService(bills BillStore, locker Locker) *BillingService {
	return &BillingService{bills: bills, locker: locker}
}

func billLockKey(id uint) string {
	return fmt.Sprintf("bill_lock:%d", id)
}

// CreateBill validates the line item, computes every derived amount, and
// persists the bill. Bills start in DRAFT or PENDING; anything else is
// rejected.
func (s *BillingService) CreateBill(ctx context.Context, bill *models.Bill) error {
	if err := utils.ValidateBill(bill); err != nil {
		return errors.Wrapf(ErrValidation, "%v", err)
	}
	if bill.Status == "" {
		bill.Status = models.BillPending
	}
	if bill.Status != models.BillDraft && bill.Status != models.BillPending {
		return errors.Wrapf(ErrValidation, "bill must start in DRAFT or PENDING, got %s", bill.Status)
	}
	if bill.BillDate == "" {
		bill.BillDate = time.Now().Format(models.DateLayout)
	}
	bill.PaidAmount = 0
	bill.PaymentStatus = models.PaymentPending
	bill.ComputeTotals()

	if err := s.bills.Create(ctx, bill); err != nil {
		return errors.Wrapf(ErrTransient, "persist bill: %v", err)
	}
	return nil
}

// AddPayment applies one payment to the bill and recomputes the derived
// statuses, with the bill status mirrored to PAID in the same write once fully
// settled. Runs under a per-bill lock so concurrent payments accumulate
// correctly. Each call is an additional payment: two identical calls are two
// accumulations, and callers needing retry safety must deduplicate upstream.
func (s *BillingService) AddPayment(ctx context.Context, billID uint, amount float64, method models.PaymentMethod, reference string) (*models.Bill, error) {
	if amount <= 0 {
		return nil, errors.Wrapf(ErrValidation, "payment amount must be positive, got %.2f", amount)
	}

	release, err := s.locker.Acquire(ctx, billLockKey(billID))
	if err != nil {
		return nil, err
	}
	defer release()

	bill, err := s.loadBillForUpdate(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status.IsTerminal() {
		return nil, errors.Wrapf(ErrInvalidTransition, "cannot pay a %s bill", bill.Status)
	}

	bill.AddPayment(amount)
	bill.PaymentMethod = method
	bill.PaymentReference = reference
	bill.PaymentDate = time.Now().Format(models.DateLayout)

	if err := s.bills.Update(ctx, bill); err != nil {
		return nil, errors.Wrapf(ErrTransient, "persist payment: %v", err)
	}
	return bill, nil
}

// ApplyDiscount sets a discount while the bill is still DRAFT/PENDING and
// recomputes the totals. An explicit amount replaces any percentage, so the
// stored row never carries a percentage it did not apply; passing both zero
// removes the discount. Discounting an approved bill is an invalid transition.
func (s *BillingService) ApplyDiscount(ctx context.Context, billID uint, percentage, amount float64) (*models.Bill, error) {
	if percentage < 0 || amount < 0 {
		return nil, errors.Wrapf(ErrValidation, "discount cannot be negative")
	}
	if amount > 0 {
		percentage = 0
	}
	return s.amend(ctx, billID, func(bill *models.Bill) error {
		if !bill.CanApplyDiscount() {
			return errors.Wrapf(ErrInvalidTransition, "cannot discount a %s bill", bill.Status)
		}
		bill.DiscountPercentage = percentage
		bill.DiscountAmount = amount
		bill.ComputeTotals()
		return nil
	})
}

// ApplyWaiver waives part of the bill under the same DRAFT/PENDING guard as
// discounts.
func (s *BillingService) ApplyWaiver(ctx context.Context, billID uint, amount float64, reason string) (*models.Bill, error) {
	if amount < 0 {
		return nil, errors.Wrapf(ErrValidation, "waived amount cannot be negative")
	}
	return s.amend(ctx, billID, func(bill *models.Bill) error {
		if !bill.CanApplyDiscount() {
			return errors.Wrapf(ErrInvalidTransition, "cannot waive a %s bill", bill.Status)
		}
		bill.WaivedAmount = amount
		bill.WaiverReason = reason
		bill.ComputeTotals()
		return nil
	})
}

// Approve moves a DRAFT/PENDING bill to APPROVED, freezing its amounts.
func (s *BillingService) Approve(ctx context.Context, billID uint) (*models.Bill, error) {
	return s.amend(ctx, billID, func(bill *models.Bill) error {
		if bill.Status != models.BillDraft && bill.Status != models.BillPending {
			return errors.Wrapf(ErrInvalidTransition, "cannot approve a %s bill", bill.Status)
		}
		bill.Status = models.BillApproved
		return nil
	})
}

// CancelBill closes the bill by administrative action. Closed bills are never
// reopened.
func (s *BillingService) CancelBill(ctx context.Context, billID uint) (*models.Bill, error) {
	return s.amend(ctx, billID, func(bill *models.Bill) error {
		if bill.Status.IsTerminal() {
			return errors.Wrapf(ErrInvalidTransition, "bill already %s", bill.Status)
		}
		bill.Status = models.BillCancelled
		bill.PaymentStatus = models.PaymentCancelled
		return nil
	})
}

// Refund closes the bill as refunded by administrative action.
func (s *BillingService) Refund(ctx context.Context, billID uint) (*models.Bill, error) {
	return s.amend(ctx, billID, func(bill *models.Bill) error {
		if bill.Status.IsTerminal() {
			return errors.Wrapf(ErrInvalidTransition, "bill already %s", bill.Status)
		}
		bill.Status = models.BillRefunded
		bill.PaymentStatus = models.PaymentCancelled
		return nil
	})
}

func (s *BillingService) GetByID(ctx context.Context, id uint) (*models.Bill, error) {
	return s.loadBill(ctx, id)
}

func (s *BillingService) GetForPatient(ctx context.Context, patientID string, page, size int) ([]models.Bill, error) {
	return s.bills.GetByPatient(ctx, patientID, page, size)
}

// GetOutstandingAmount totals the patient's unpaid balances.
func (s *BillingService) GetOutstandingAmount(ctx context.Context, patientID string) (float64, error) {
	outstanding, err := s.bills.SumOutstanding(ctx, patientID)
	if err != nil {
		return 0, errors.Wrapf(ErrTransient, "outstanding query: %v", err)
	}
	return outstanding, nil
}

func (s *BillingService) GetOverdueBills(ctx context.Context) ([]models.Bill, error) {
	return s.bills.GetOverdue(ctx, time.Now().Format(models.DateLayout))
}

func (s *BillingService) GetTotalBilledInPeriod(ctx context.Context, start, end string) (float64, error) {
	return s.bills.TotalBilledInPeriod(ctx, start, end)
}

func (s *BillingService) GetTotalCollectedInPeriod(ctx context.Context, start, end string) (float64, error) {
	return s.bills.TotalCollectedInPeriod(ctx, start, end)
}

func (s *BillingService) loadBill(ctx context.Context, id uint) (*models.Bill, error) {
	bill, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(ErrTransient, "bill lookup: %v", err)
	}
	if bill == nil {
		return nil, errors.Wrapf(ErrNotFound, "bill %d", id)
	}
	return bill, nil
}

// loadBillForUpdate bypasses the read-through cache. Mutations must start from
// the committed row: a concurrent reader can repopulate the cache with a stale
// copy after the writer's invalidation, and accumulating paidAmount from that
// copy would lose a payment.
func (s *BillingService) loadBillForUpdate(ctx context.Context, id uint) (*models.Bill, error) {
	bill, err := s.bills.GetForUpdate(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(ErrTransient, "bill lookup: %v", err)
	}
	if bill == nil {
		return nil, errors.Wrapf(ErrNotFound, "bill %d", id)
	}
	return bill, nil
}

// amend runs a guarded mutation under the bill's lock and persists the result
// as a single write.
func (s *BillingService) amend(ctx context.Context, billID uint, mutate func(*models.Bill) error) (*models.Bill, error) {
	release, err := s.locker.Acquire(ctx, billLockKey(billID))
	if err != nil {
		return nil, err
	}
	defer release()

	bill, err := s.loadBillForUpdate(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := mutate(bill); err != nil {
		return nil, err
	}
	if err := s.bills.Update(ctx, bill); err != nil {
		return nil, errors.Wrapf(ErrTransient, "persist bill update: %v", err)
	}
	return bill, nil
}
