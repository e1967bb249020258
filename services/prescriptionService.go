package services

import (
	"CarePoint/models"
	"CarePoint/utils"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// PrescriptionStore is the slice of the persistence gateway the lifecycle
// manager needs.
type PrescriptionStore interface {
	Create(ctx context.Context, prescription *models.Prescription) error
	GetByID(ctx context.Context, id uint) (*models.Prescription, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Prescription, error)
	Update(ctx context.Context, prescription *models.Prescription) error
	GetByPatient(ctx context.Context, patientID string, page, size int) ([]models.Prescription, error)
	GetRefillable(ctx context.Context, patientID, today string) ([]models.Prescription, error)
	GetEmergency(ctx context.Context) ([]models.Prescription, error)
}

// PrescriptionService owns the prescription state machine, dispensing, and
// refill eligibility.
type PrescriptionService struct {
	prescriptions PrescriptionStore
	locker        Locker
}

func NewPrescriptionService(prescriptions PrescriptionStore, locker Locker) *PrescriptionService {
	return &PrescriptionService{prescriptions: prescriptions, locker: locker}
}

func prescriptionLockKey(id uint) string {
	return fmt.Sprintf("prescription_lock:%d", id)
}

// CreatePrescription validates and persists a new order in PRESCRIBED with
// zeroed dispensing counters.
func (s *PrescriptionService) CreatePrescription(ctx context.Context, p *models.Prescription) error {
	if err := utils.ValidatePrescription(p); err != nil {
		return errors.Wrapf(ErrValidation, "%v", err)
	}
	p.Status = models.PrescriptionPrescribed
	p.DispensedQuantity = 0
	p.RefillsUsed = 0
	if p.PrescriptionDate == "" {
		p.PrescriptionDate = time.Now().Format(models.DateLayout)
	}
	if err := s.prescriptions.Create(ctx, p); err != nil {
		return errors.Wrapf(ErrTransient, "persist prescription: %v", err)
	}
	return nil
}

// Dispense fulfils the order: legal from PRESCRIBED or DISPENSED, never once
// expired or terminal. The dispensed quantity is recorded as given; whether it
// exceeds the prescribed quantity is the caller's responsibility, and
// IsFullCourseCompleted stays a derived read-only check.
func (s *PrescriptionService) Dispense(ctx context.Context, id uint, quantity int, dispensedBy string) (*models.Prescription, error) {
	if quantity <= 0 {
		return nil, errors.Wrapf(ErrValidation, "dispensed quantity must be positive, got %d", quantity)
	}
	return s.amend(ctx, id, func(p *models.Prescription) error {
		if p.Status.IsTerminal() {
			return errors.Wrapf(ErrInvalidTransition, "cannot dispense a %s prescription", p.Status)
		}
		if p.IsExpired() {
			return errors.Wrapf(ErrInvalidTransition, "prescription %d has expired", id)
		}
		p.Status = models.PrescriptionDispensed
		p.DispensedQuantity = quantity
		p.DispensedDate = time.Now().Format(models.DateLayout)
		p.DispensedBy = dispensedBy
		return nil
	})
}

// Refill re-dispenses without a new prescribing event. Guarded by refill
// eligibility; the refill counter is only ever mutated here.
func (s *PrescriptionService) Refill(ctx context.Context, id uint, quantity int, dispensedBy string) (*models.Prescription, error) {
	if quantity <= 0 {
		return nil, errors.Wrapf(ErrValidation, "refill quantity must be positive, got %d", quantity)
	}
	return s.amend(ctx, id, func(p *models.Prescription) error {
		if p.Status.IsTerminal() {
			return errors.Wrapf(ErrInvalidTransition, "cannot refill a %s prescription", p.Status)
		}
		if !p.CanRefill() {
			return errors.Wrapf(ErrInvalidTransition, "prescription %d is not refill-eligible", id)
		}
		p.RefillsUsed++
		p.Status = models.PrescriptionDispensed
		p.DispensedQuantity = quantity
		p.DispensedDate = time.Now().Format(models.DateLayout)
		p.DispensedBy = dispensedBy
		return nil
	})
}

// Complete closes out a DISPENSED course.
func (s *PrescriptionService) Complete(ctx context.Context, id uint) (*models.Prescription, error) {
	return s.amend(ctx, id, func(p *models.Prescription) error {
		if p.Status != models.PrescriptionDispensed {
			return errors.Wrapf(ErrInvalidTransition, "cannot complete a %s prescription", p.Status)
		}
		p.Status = models.PrescriptionCompleted
		return nil
	})
}

// Discontinue stops an active order, recording why and when.
func (s *PrescriptionService) Discontinue(ctx context.Context, id uint, reason string) (*models.Prescription, error) {
	return s.amend(ctx, id, func(p *models.Prescription) error {
		if p.Status.IsTerminal() {
			return errors.Wrapf(ErrInvalidTransition, "prescription already %s", p.Status)
		}
		p.Status = models.PrescriptionDiscontinued
		p.StopReason = reason
		p.StopDate = time.Now().Format(models.DateLayout)
		return nil
	})
}

// CancelPrescription voids an order that was never acted on.
func (s *PrescriptionService) CancelPrescription(ctx context.Context, id uint, reason string) (*models.Prescription, error) {
	return s.amend(ctx, id, func(p *models.Prescription) error {
		if p.Status.IsTerminal() {
			return errors.Wrapf(ErrInvalidTransition, "prescription already %s", p.Status)
		}
		p.Status = models.PrescriptionCancelled
		p.StopReason = reason
		p.StopDate = time.Now().Format(models.DateLayout)
		return nil
	})
}

func (s *PrescriptionService) GetByID(ctx context.Context, id uint) (*models.Prescription, error) {
	return s.load(ctx, id)
}

// CanRefill reports refill eligibility for one prescription.
func (s *PrescriptionService) CanRefill(ctx context.Context, id uint) (bool, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}
	return !p.Status.IsTerminal() && p.CanRefill(), nil
}

// GetRefillable lists the patient's refill-eligible prescriptions, most recent
// first.
func (s *PrescriptionService) GetRefillable(ctx context.Context, patientID string) ([]models.Prescription, error) {
	today := time.Now().Format(models.DateLayout)
	return s.prescriptions.GetRefillable(ctx, patientID, today)
}

func (s *PrescriptionService) GetForPatient(ctx context.Context, patientID string, page, size int) ([]models.Prescription, error) {
	return s.prescriptions.GetByPatient(ctx, patientID, page, size)
}

func (s *PrescriptionService) GetEmergency(ctx context.Context) ([]models.Prescription, error) {
	return s.prescriptions.GetEmergency(ctx)
}

func (s *PrescriptionService) load(ctx context.Context, id uint) (*models.Prescription, error) {
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(ErrTransient, "prescription lookup: %v", err)
	}
	if p == nil {
		return nil, errors.Wrapf(ErrNotFound, "prescription %d", id)
	}
	return p, nil
}

// loadForUpdate bypasses the read-through cache so counter mutations start
// from the committed row, not a copy a concurrent reader may have re-cached
// after the last invalidation.
func (s *PrescriptionService) loadForUpdate(ctx context.Context, id uint) (*models.Prescription, error) {
	p, err := s.prescriptions.GetForUpdate(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(ErrTransient, "prescription lookup: %v", err)
	}
	if p == nil {
		return nil, errors.Wrapf(ErrNotFound, "prescription %d", id)
	}
	return p, nil
}

// amend runs a guarded mutation under the prescription's lock so dispensing
// and refill counters serialize, and persists as a single write.
func (s *PrescriptionService) amend(ctx context.Context, id uint, mutate func(*models.Prescription) error) (*models.Prescription, error) {
	release, err := s.locker.Acquire(ctx, prescriptionLockKey(id))
	if err != nil {
		return nil, err
	}
	defer release()

	p, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(p); err != nil {
		return nil, err
	}
	if err := s.prescriptions.Update(ctx, p); err != nil {
		return nil, errors.Wrapf(ErrTransient, "persist prescription update: %v", err)
	}
	return p, nil
}
