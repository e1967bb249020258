package services

import (
	"CarePoint/models"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"
)

// AppointmentStore is the slice of the persistence gateway the scheduler needs.
type AppointmentStore interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Appointment, error)
	Update(ctx context.Context, appointment *models.Appointment) error
	Replace(ctx context.Context, old, replacement *models.Appointment) error
	GetByClinicianAndDate(ctx context.Context, clinicianID, date string) ([]models.Appointment, error)
	GetByPatient(ctx context.Context, patientID string, page, size int) ([]models.Appointment, error)
	GetRecentByPatient(ctx context.Context, patientID string, limit int) ([]models.Appointment, error)
	GetUpcoming(ctx context.Context, fromDate string) ([]models.Appointment, error)
	GetEmergency(ctx context.Context) ([]models.Appointment, error)
}

// ClinicianStore resolves clinicians for booking validation.
type ClinicianStore interface {
	GetByID(ctx context.Context, id string) (*models.Clinician, error)
}

// Notifier delivers best-effort booking notifications. Failures are logged,
// never surfaced: mail does not gate scheduling.
type Notifier interface {
	AppointmentBooked(patientEmail string, appointment *models.Appointment) error
	AppointmentCancelled(patientEmail string, appointment *models.Appointment) error
}

// PatientStore resolves patients for notification addressing.
type PatientStore interface {
	GetByID(ctx context.Context, id string) (*models.Patient, error)
}

// BookingRequest carries validated booking parameters from the transport layer.
type BookingRequest struct {
	PatientID       string `json:"patient_id"`
	ClinicianID     string `json:"clinician_id"`
	NurseID         string `json:"nurse_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes"`
	IsEmergency     bool   `json:"is_emergency"`
}

// SchedulerService owns the appointment status state machine and the
// no-double-booking invariant.
type SchedulerService struct {
	appointments AppointmentStore
	clinicians   ClinicianStore
	patients     PatientStore
	locker       Locker
	notifier     Notifier
}

func NewSchedulerService(appointments AppointmentStore, clinicians ClinicianStore, patients PatientStore, locker Locker, notifier Notifier) *SchedulerService {
	return &SchedulerService{
		appointments: appointments,
		clinicians:   clinicians,
		patients:     patients,
		locker:       locker,
		notifier:     notifier,
	}
}

func scheduleLockKey(clinicianID, date string) string {
	return fmt.Sprintf("schedule_lock:%s_%s", clinicianID, date)
}

// Book validates the request, checks the clinician's calendar for overlapping
// windows, and persists a new SCHEDULED appointment. The read-check-write runs
// under a per-(clinician, date) lock so concurrent bookings for the same
// clinician serialize; without it two callers could both pass the conflict
// check.
func (s *SchedulerService) Book(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = models.DefaultDurationMinutes
	}

	candidate := &models.Appointment{
		PatientID:       req.PatientID,
		ClinicianID:     req.ClinicianID,
		NurseID:         req.NurseID,
		AppointmentDate: req.Date,
		AppointmentTime: req.Time,
		DurationMinutes: req.DurationMinutes,
		Status:          models.AppointmentScheduled,
		Reason:          req.Reason,
		Notes:           req.Notes,
		IsEmergency:     req.IsEmergency,
	}

	start, end, err := candidate.Window()
	if err != nil {
		return nil, errors.Wrapf(ErrValidation, "unparsable appointment instant %q %q", req.Date, req.Time)
	}

	clinician, err := s.clinicians.GetByID(ctx, req.ClinicianID)
	if err != nil {
		return nil, errors.Wrapf(ErrTransient, "clinician lookup: %v", err)
	}
	if clinician == nil {
		return nil, errors.Wrapf(ErrNotFound, "clinician %s", req.ClinicianID)
	}
	if !clinician.IsActive {
		return nil, errors.Wrapf(ErrValidation, "clinician %s is not active", req.ClinicianID)
	}

	release, err := s.locker.Acquire(ctx, scheduleLockKey(req.ClinicianID, req.Date))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkConflicts(ctx, req.ClinicianID, req.Date, start, end, 0); err != nil {
		return nil, err
	}

	if err := s.appointments.Create(ctx, candidate); err != nil {
		return nil, errors.Wrapf(ErrTransient, "persist booking: %v", err)
	}

	s.notifyBooked(ctx, candidate)
	return candidate, nil
}

// checkConflicts loads the clinician's day and fails when any non-cancelled
// appointment window overlaps [start, end). Half-open intervals: touching
// boundaries do not conflict. excludeID skips the appointment being
// rescheduled.
func (s *SchedulerService) checkConflicts(ctx context.Context, clinicianID, date string, start, end time.Time, excludeID uint) error {
	existing, err := s.appointments.GetByClinicianAndDate(ctx, clinicianID, date)
	if err != nil {
		return errors.Wrapf(ErrTransient, "conflict query: %v", err)
	}
	for i := range existing {
		apt := &existing[i]
		if apt.ID == excludeID && excludeID != 0 {
			continue
		}
		if !apt.OccupiesSlot() {
			continue
		}
		aptStart, aptEnd, err := apt.Window()
		if err != nil {
			log.Printf("Skipping appointment %d with unparsable window: %v", apt.ID, err)
			continue
		}
		if models.WindowsOverlap(start, end, aptStart, aptEnd) {
			return errors.Wrapf(ErrSchedulingConflict,
				"clinician %s already booked %s-%s on %s",
				clinicianID, aptStart.Format(models.ClockLayout), aptEnd.Format(models.ClockLayout), date)
		}
	}
	return nil
}

// IsAvailable reports whether the clinician's [time, time+30m) window on the
// date is free of non-cancelled appointments.
func (s *SchedulerService) IsAvailable(ctx context.Context, clinicianID, date, timeOfDay string) (bool, error) {
	probe := &models.Appointment{
		AppointmentDate: date,
		AppointmentTime: timeOfDay,
		DurationMinutes: models.DefaultDurationMinutes,
	}
	start, end, err := probe.Window()
	if err != nil {
		return false, errors.Wrapf(ErrValidation, "unparsable instant %q %q", date, timeOfDay)
	}
	err = s.checkConflicts(ctx, clinicianID, date, start, end, 0)
	if errors.Is(err, ErrSchedulingConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Confirm moves a SCHEDULED appointment to CONFIRMED.
func (s *SchedulerService) Confirm(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.transition(ctx, id, models.AppointmentConfirmed, func(apt *models.Appointment) error {
		if apt.Status != models.AppointmentScheduled {
			return errors.Wrapf(ErrInvalidTransition, "cannot confirm appointment in status %s", apt.Status)
		}
		return nil
	})
}

// Start moves a SCHEDULED or CONFIRMED appointment to IN_PROGRESS and stamps
// the actual visit time.
func (s *SchedulerService) Start(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.transition(ctx, id, models.AppointmentInProgress, func(apt *models.Appointment) error {
		if apt.Status != models.AppointmentScheduled && apt.Status != models.AppointmentConfirmed {
			return errors.Wrapf(ErrInvalidTransition, "cannot start appointment in status %s", apt.Status)
		}
		now := time.Now()
		apt.ActualVisitTime = &now
		return nil
	})
}

// Complete finishes a visit. Tolerated from SCHEDULED or CONFIRMED as well as
// IN_PROGRESS, for walk-in flows that never formally started.
func (s *SchedulerService) Complete(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.transition(ctx, id, models.AppointmentCompleted, func(apt *models.Appointment) error {
		switch apt.Status {
		case models.AppointmentScheduled, models.AppointmentConfirmed, models.AppointmentInProgress:
		default:
			return errors.Wrapf(ErrInvalidTransition, "cannot complete appointment in status %s", apt.Status)
		}
		if apt.ActualVisitTime == nil {
			now := time.Now()
			apt.ActualVisitTime = &now
		}
		return nil
	})
}

// Cancel releases a future SCHEDULED/CONFIRMED slot, recording the reason and
// the cancellation timestamp.
func (s *SchedulerService) Cancel(ctx context.Context, id uint, reason string) (*models.Appointment, error) {
	apt, err := s.transition(ctx, id, models.AppointmentCancelled, func(apt *models.Appointment) error {
		if !apt.CanBeCancelled() {
			return errors.Wrapf(ErrInvalidTransition, "appointment %d cannot be cancelled", id)
		}
		now := time.Now()
		apt.CancellationReason = reason
		apt.CancellationDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifyCancelled(ctx, apt)
	return apt, nil
}

// MarkNoShow flags a SCHEDULED/CONFIRMED appointment whose slot has passed.
func (s *SchedulerService) MarkNoShow(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.transition(ctx, id, models.AppointmentNoShow, func(apt *models.Appointment) error {
		if apt.Status != models.AppointmentScheduled && apt.Status != models.AppointmentConfirmed {
			return errors.Wrapf(ErrInvalidTransition, "cannot mark no-show in status %s", apt.Status)
		}
		start, err := apt.StartAt()
		if err != nil {
			return errors.Wrapf(ErrValidation, "unparsable appointment instant")
		}
		if start.After(time.Now()) {
			return errors.Wrapf(ErrInvalidTransition, "appointment %d has not happened yet", id)
		}
		return nil
	})
}

// Reschedule books a fresh slot and marks the original RESCHEDULED in one
// transaction. Legal under the same guard as cancellation.
func (s *SchedulerService) Reschedule(ctx context.Context, id uint, newDate, newTime string) (*models.Appointment, error) {
	apt, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !apt.CanBeCancelled() {
		return nil, errors.Wrapf(ErrInvalidTransition, "appointment %d cannot be rescheduled", id)
	}

	replacement := &models.Appointment{
		PatientID:       apt.PatientID,
		ClinicianID:     apt.ClinicianID,
		NurseID:         apt.NurseID,
		AppointmentDate: newDate,
		AppointmentTime: newTime,
		DurationMinutes: apt.DurationMinutes,
		Status:          models.AppointmentScheduled,
		Reason:          apt.Reason,
		Notes:           apt.Notes,
		IsEmergency:     apt.IsEmergency,
	}
	start, end, err := replacement.Window()
	if err != nil {
		return nil, errors.Wrapf(ErrValidation, "unparsable appointment instant %q %q", newDate, newTime)
	}

	release, err := s.locker.Acquire(ctx, scheduleLockKey(apt.ClinicianID, newDate))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkConflicts(ctx, apt.ClinicianID, newDate, start, end, apt.ID); err != nil {
		return nil, err
	}

	apt.Status = models.AppointmentRescheduled
	if err := s.appointments.Replace(ctx, apt, replacement); err != nil {
		return nil, errors.Wrapf(ErrTransient, "persist reschedule: %v", err)
	}

	s.notifyBooked(ctx, replacement)
	return replacement, nil
}

// RecordVisitNotes attaches clinical notes after the visit.
func (s *SchedulerService) RecordVisitNotes(ctx context.Context, id uint, symptoms, diagnosis, treatment string) (*models.Appointment, error) {
	apt, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.Status != models.AppointmentInProgress && apt.Status != models.AppointmentCompleted {
		return nil, errors.Wrapf(ErrInvalidTransition, "cannot record notes in status %s", apt.Status)
	}
	apt.Symptoms = symptoms
	apt.Diagnosis = diagnosis
	apt.Treatment = treatment
	if err := s.appointments.Update(ctx, apt); err != nil {
		return nil, errors.Wrapf(ErrTransient, "persist visit notes: %v", err)
	}
	return apt, nil
}

func (s *SchedulerService) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.load(ctx, id)
}

func (s *SchedulerService) GetForPatient(ctx context.Context, patientID string, page, size int) ([]models.Appointment, error) {
	return s.appointments.GetByPatient(ctx, patientID, page, size)
}

func (s *SchedulerService) GetRecentForPatient(ctx context.Context, patientID string, limit int) ([]models.Appointment, error) {
	return s.appointments.GetRecentByPatient(ctx, patientID, limit)
}

// GetTodayForClinician returns the clinician's schedule for today.
func (s *SchedulerService) GetTodayForClinician(ctx context.Context, clinicianID string) ([]models.Appointment, error) {
	today := time.Now().Format(models.DateLayout)
	return s.appointments.GetByClinicianAndDate(ctx, clinicianID, today)
}

func (s *SchedulerService) GetUpcoming(ctx context.Context) ([]models.Appointment, error) {
	return s.appointments.GetUpcoming(ctx, time.Now().Format(models.DateLayout))
}

func (s *SchedulerService) GetEmergency(ctx context.Context) ([]models.Appointment, error) {
	return s.appointments.GetEmergency(ctx)
}

// load resolves an appointment or fails with the not-found kind.
func (s *SchedulerService) load(ctx context.Context, id uint) (*models.Appointment, error) {
	apt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(ErrTransient, "appointment lookup: %v", err)
	}
	if apt == nil {
		return nil, errors.Wrapf(ErrNotFound, "appointment %d", id)
	}
	return apt, nil
}

// loadForUpdate bypasses the read-through cache so transition guards run
// against the committed row.
func (s *SchedulerService) loadForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	apt, err := s.appointments.GetForUpdate(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(ErrTransient, "appointment lookup: %v", err)
	}
	if apt == nil {
		return nil, errors.Wrapf(ErrNotFound, "appointment %d", id)
	}
	return apt, nil
}

// transition loads, guards, applies the new status, and writes back in a
// single persisted update.
func (s *SchedulerService) transition(ctx context.Context, id uint, to models.AppointmentStatus, guard func(*models.Appointment) error) (*models.Appointment, error) {
	apt, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard(apt); err != nil {
		return nil, err
	}
	apt.Status = to
	if err := s.appointments.Update(ctx, apt); err != nil {
		return nil, errors.Wrapf(ErrTransient, "persist transition to %s: %v", to, err)
	}
	return apt, nil
}

func (s *SchedulerService) notifyBooked(ctx context.Context, apt *models.Appointment) {
	if s.notifier == nil || s.patients == nil {
		return
	}
	patient, err := s.patients.GetByID(ctx, apt.PatientID)
	if err != nil || patient == nil || patient.Email == "" {
		return
	}
	if err := s.notifier.AppointmentBooked(patient.Email, apt); err != nil {
		log.Printf("Failed to send booking notification for appointment %d: %v", apt.ID, err)
	}
}

func (s *SchedulerService) notifyCancelled(ctx context.Context, apt *models.Appointment) {
	if s.notifier == nil || s.patients == nil {
		return
	}
	patient, err := s.patients.GetByID(ctx, apt.PatientID)
	if err != nil || patient == nil || patient.Email == "" {
		return
	}
	if err := s.notifier.AppointmentCancelled(patient.Email, apt); err != nil {
		log.Printf("Failed to send cancellation notification for appointment %d: %v", apt.ID, err)
	}
}
