package repositories

import (
	"CarePoint/cache"
	"CarePoint/database"
	"CarePoint/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	AppointmentCacheExpiry = 24 * time.Hour
)

type AppointmentRepository struct {
	cache *cache.Cache
}

func NewAppointmentRepository(cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{cache: cache}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if err := database.DB.WithContext(ctx).Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return r.invalidate(ctx, appointment)
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.appointmentCacheKey(id)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var appointment models.Appointment
		if err := json.Unmarshal([]byte(cached), &appointment); err == nil {
			return &appointment, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get appointment from cache: %v", err)
	}

	var appointment models.Appointment
	err = database.DB.WithContext(ctx).First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	appointmentJSON, err := json.Marshal(appointment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal appointment: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, appointmentJSON, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to set appointment in cache: %v", err)
	}

	return &appointment, nil
}

// GetForUpdate reads the appointment straight from the database. Status
// transitions apply their guards to committed state, so this is never served
// from cache.
func (r *AppointmentRepository) GetForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointment models.Appointment
	err := database.DB.WithContext(ctx).First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// GetByClinicianAndDate returns every appointment held by the clinician on the
// given date. The conflict check depends on this reflecting committed state, so
// it always goes to the database and is never served from cache.
func (r *AppointmentRepository) GetByClinicianAndDate(ctx context.Context, clinicianID, date string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointments []models.Appointment
	err := database.DB.WithContext(ctx).
		Where("clinician_id = ? AND appointment_date = ?", clinicianID, date).
		Order("appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get clinician appointments: %w", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) GetByPatient(ctx context.Context, patientID string, page, size int) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if size <= 0 {
		size = 20
	}
	var appointments []models.Appointment
	err := database.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("appointment_date DESC, appointment_time DESC").
		Offset(listOffset(page, size)).
		Limit(size).
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) GetRecentByPatient(ctx context.Context, patientID string, limit int) ([]models.Appointment, error) {
	return r.GetByPatient(ctx, patientID, 1, limit)
}

// GetUpcoming returns non-terminal appointments from the given date forward.
func (r *AppointmentRepository) GetUpcoming(ctx context.Context, fromDate string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointments []models.Appointment
	err := database.DB.WithContext(ctx).
		Where("appointment_date >= ? AND status IN ?", fromDate,
			[]models.AppointmentStatus{models.AppointmentScheduled, models.AppointmentConfirmed}).
		Order("appointment_date ASC, appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming appointments: %w", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) GetEmergency(ctx context.Context) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointments []models.Appointment
	err := database.DB.WithContext(ctx).
		Where("is_emergency = ?", true).
		Order("appointment_date DESC, appointment_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get emergency appointments: %w", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	if err := database.DB.WithContext(ctx).Save(appointment).Error; err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return r.invalidate(ctx, appointment)
}

// Replace persists the rescheduled copy and the superseded original in one
// transaction, so a failure leaves neither written.
func (r *AppointmentRepository) Replace(ctx context.Context, old, replacement *models.Appointment) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(old).Error; err != nil {
			return err
		}
		return tx.Create(replacement).Error
	})
	if err != nil {
		return fmt.Errorf("failed to reschedule appointment: %w", err)
	}
	if err := r.invalidate(ctx, old); err != nil {
		return err
	}
	return r.invalidate(ctx, replacement)
}

func (r *AppointmentRepository) invalidate(ctx context.Context, appointment *models.Appointment) error {
	if err := r.cache.Delete(ctx, r.appointmentCacheKey(appointment.ID)); err != nil {
		return fmt.Errorf("failed to delete appointment cache: %w", err)
	}
	if err := r.cache.Delete(ctx, r.patientCacheKey(appointment.PatientID)); err != nil {
		return fmt.Errorf("failed to delete patient cache: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) appointmentCacheKey(id uint) string {
	return fmt.Sprintf("appointment_cache:%d", id)
}

func (r *AppointmentRepository) patientCacheKey(patientID string) string {
	return fmt.Sprintf("patient_cache:%s", patientID)
}
