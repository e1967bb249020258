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
	ClinicianCacheExpiry = 7 * 24 * time.Hour
)

type ClinicianRepository struct {
	cache *cache.Cache
}

func NewClinicianRepository(cache *cache.Cache) *ClinicianRepository {
	return &ClinicianRepository{cache: cache}
}

func (r *ClinicianRepository) Create(ctx context.Context, clinician *models.Clinician) error {
	if err := database.DB.WithContext(ctx).Create(clinician).Error; err != nil {
		return fmt.Errorf("failed to create clinician: %w", err)
	}
	return r.cache.Delete(ctx, r.clinicianCacheKey(clinician.ID))
}

func (r *ClinicianRepository) GetByID(ctx context.Context, id string) (*models.Clinician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.clinicianCacheKey(id)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var clinician models.Clinician
		if err := json.Unmarshal([]byte(cached), &clinician); err == nil {
			return &clinician, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get clinician from cache: %v", err)
	}

	var clinician models.Clinician
	err = database.DB.WithContext(ctx).First(&clinician, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get clinician: %w", err)
	}

	clinicianJSON, err := json.Marshal(clinician)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal clinician: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, clinicianJSON, ClinicianCacheExpiry); err != nil {
		log.Printf("Failed to set clinician in cache: %v", err)
	}

	return &clinician, nil
}

func (r *ClinicianRepository) GetAll(ctx context.Context) ([]models.Clinician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var clinicians []models.Clinician
	err := database.DB.WithContext(ctx).
		Order("last_name ASC").
		Find(&clinicians).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all clinicians: %w", err)
	}
	return clinicians, nil
}

func (r *ClinicianRepository) Update(ctx context.Context, clinician *models.Clinician) error {
	if err := database.DB.WithContext(ctx).Save(clinician).Error; err != nil {
		return fmt.Errorf("failed to update clinician: %w", err)
	}
	return r.cache.Delete(ctx, r.clinicianCacheKey(clinician.ID))
}

func (r *ClinicianRepository) Delete(ctx context.Context, id string) error {
	if err := database.DB.WithContext(ctx).Delete(&models.Clinician{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete clinician: %w", err)
	}
	return r.cache.Delete(ctx, r.clinicianCacheKey(id))
}

func (r *ClinicianRepository) clinicianCacheKey(id string) string {
	return fmt.Sprintf("clinician_cache:%s", id)
}
