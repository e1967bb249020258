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
	PrescriptionCacheExpiry = 24 * time.Hour
)

type PrescriptionRepository struct {
	cache *cache.Cache
}

func NewPrescriptionRepository(cache *cache.Cache) *PrescriptionRepository {
	return &PrescriptionRepository{cache: cache}
}

func (r *PrescriptionRepository) Create(ctx context.Context, prescription *models.Prescription) error {
	if err := database.DB.WithContext(ctx).Create(prescription).Error; err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return r.invalidate(ctx, prescription)
}

func (r *PrescriptionRepository) GetByID(ctx context.Context, id uint) (*models.Prescription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.prescriptionCacheKey(id)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var prescription models.Prescription
		if err := json.Unmarshal([]byte(cached), &prescription); err == nil {
			return &prescription, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get prescription from cache: %v", err)
	}

	var prescription models.Prescription
	err = database.DB.WithContext(ctx).First(&prescription, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}

	prescriptionJSON, err := json.Marshal(prescription)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prescription: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, prescriptionJSON, PrescriptionCacheExpiry); err != nil {
		log.Printf("Failed to set prescription in cache: %v", err)
	}

	return &prescription, nil
}

// GetForUpdate reads the prescription straight from the database. The locked
// dispensing and refill paths mutate counters from committed state, so this is
// never served from cache.
func (r *PrescriptionRepository) GetForUpdate(ctx context.Context, id uint) (*models.Prescription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var prescription models.Prescription
	err := database.DB.WithContext(ctx).First(&prescription, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}

func (r *PrescriptionRepository) GetByPatient(ctx context.Context, patientID string, page, size int) ([]models.Prescription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if size <= 0 {
		size = 20
	}
	var prescriptions []models.Prescription
	err := database.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("prescription_date DESC, id DESC").
		Offset(listOffset(page, size)).
		Limit(size).
		Find(&prescriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get patient prescriptions: %w", err)
	}
	return prescriptions, nil
}

// GetRefillable returns the patient's prescriptions that still have refills
// left, have not expired, and are not in a terminal status, most recent first.
func (r *PrescriptionRepository) GetRefillable(ctx context.Context, patientID, today string) ([]models.Prescription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var prescriptions []models.Prescription
	err := database.DB.WithContext(ctx).
		Where("patient_id = ? AND refills_used < refills_allowed AND (end_date = '' OR end_date >= ?) AND status IN ?",
			patientID, today,
			[]models.PrescriptionStatus{models.PrescriptionPrescribed, models.PrescriptionDispensed}).
		Order("prescription_date DESC, id DESC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get refillable prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *PrescriptionRepository) GetEmergency(ctx context.Context) ([]models.Prescription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var prescriptions []models.Prescription
	err := database.DB.WithContext(ctx).
		Where("is_emergency = ?", true).
		Order("prescription_date DESC, id DESC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get emergency prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *PrescriptionRepository) Update(ctx context.Context, prescription *models.Prescription) error {
	if err := database.DB.WithContext(ctx).Save(prescription).Error; err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}
	return r.invalidate(ctx, prescription)
}

func (r *PrescriptionRepository) invalidate(ctx context.Context, prescription *models.Prescription) error {
	if err := r.cache.Delete(ctx, r.prescriptionCacheKey(prescription.ID)); err != nil {
		return fmt.Errorf("failed to delete prescription cache: %w", err)
	}
	if err := r.cache.Delete(ctx, fmt.Sprintf("patient_cache:%s", prescription.PatientID)); err != nil {
		return fmt.Errorf("failed to delete patient cache: %w", err)
	}
	return nil
}

func (r *PrescriptionRepository) prescriptionCacheKey(id uint) string {
	return fmt.Sprintf("prescription_cache:%d", id)
}
