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
	BillCacheExpiry = 24 * time.Hour
)

type BillingRepository struct {
	cache *cache.Cache
}

func NewBillingRepository(cache *cache.Cache) *BillingRepository {
	return &BillingRepository{cache: cache}
}

// Create persists a new bill, assigning the next bill number from the database
// sequence so concurrent writers never collide.
func (r *BillingRepository) Create(ctx context.Context, bill *models.Bill) error {
	var nextNumber string
	if err := database.DB.WithContext(ctx).
		Raw("SELECT 'CB-' || LPAD(nextval('bill_number_seq')::TEXT, 6, '0')").
		Scan(&nextNumber).Error; err != nil {
		return fmt.Errorf("failed to obtain next bill number: %w", err)
	}
	bill.BillNumber = nextNumber

	if err := database.DB.WithContext(ctx).Create(bill).Error; err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return r.invalidate(ctx, bill)
}

func (r *BillingRepository) GetByID(ctx context.Context, id uint) (*models.Bill, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.billCacheKey(id)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var bill models.Bill
		if err := json.Unmarshal([]byte(cached), &bill); err == nil {
			return &bill, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get bill from cache: %v", err)
	}

	var bill models.Bill
	err = database.DB.WithContext(ctx).First(&bill, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	billJSON, err := json.Marshal(bill)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bill: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, billJSON, BillCacheExpiry); err != nil {
		log.Printf("Failed to set bill in cache: %v", err)
	}

	return &bill, nil
}

// GetForUpdate reads the bill straight from the database. The locked payment
// and amendment paths accumulate from committed state, so this is never served
// from cache.
func (r *BillingRepository) GetForUpdate(ctx context.Context, id uint) (*models.Bill, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var bill models.Bill
	err := database.DB.WithContext(ctx).First(&bill, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return &bill, nil
}

func (r *BillingRepository) GetByPatient(ctx context.Context, patientID string, page, size int) ([]models.Bill, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if size <= 0 {
		size = 20
	}
	var bills []models.Bill
	err := database.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("bill_date DESC, id DESC").
		Offset(listOffset(page, size)).
		Limit(size).
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get patient bills: %w", err)
	}
	return bills, nil
}

// SumOutstanding totals finalAmount - paidAmount across the patient's unsettled
// bills. Cancelled and refunded bills carry no balance.
func (r *BillingRepository) SumOutstanding(ctx context.Context, patientID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var outstanding float64
	err := database.DB.WithContext(ctx).
		Model(&models.Bill{}).
		Select("COALESCE(SUM(final_amount - paid_amount), 0)").
		Where("patient_id = ? AND payment_status NOT IN ?", patientID,
			[]models.PaymentStatus{models.PaymentPaid, models.PaymentCancelled}).
		Scan(&outstanding).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum outstanding amount: %w", err)
	}
	return outstanding, nil
}

// GetOverdue returns unsettled bills whose due date is before the given date.
func (r *BillingRepository) GetOverdue(ctx context.Context, before string) ([]models.Bill, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var bills []models.Bill
	err := database.DB.WithContext(ctx).
		Where("due_date < ? AND payment_status IN ?", before,
			[]models.PaymentStatus{models.PaymentPending, models.PaymentPartiallyPaid, models.PaymentOverdue}).
		Order("due_date ASC").
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get overdue bills: %w", err)
	}
	return bills, nil
}

// TotalBilledInPeriod sums final amounts for bills dated within [start, end].
func (r *BillingRepository) TotalBilledInPeriod(ctx context.Context, start, end string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total float64
	err := database.DB.WithContext(ctx).
		Model(&models.Bill{}).
		Select("COALESCE(SUM(final_amount), 0)").
		Where("bill_date BETWEEN ? AND ? AND status NOT IN ?", start, end,
			[]models.BillStatus{models.BillCancelled, models.BillRefunded}).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to total billed amounts: %w", err)
	}
	return total, nil
}

// TotalCollectedInPeriod sums payments received within [start, end].
func (r *BillingRepository) TotalCollectedInPeriod(ctx context.Context, start, end string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total float64
	err := database.DB.WithContext(ctx).
		Model(&models.Bill{}).
		Select("COALESCE(SUM(paid_amount), 0)").
		Where("payment_date BETWEEN ? AND ?", start, end).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to total collected amounts: %w", err)
	}
	return total, nil
}

func (r *BillingRepository) Update(ctx context.Context, bill *models.Bill) error {
	if err := database.DB.WithContext(ctx).Save(bill).Error; err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	return r.invalidate(ctx, bill)
}

func (r *BillingRepository) invalidate(ctx context.Context, bill *models.Bill) error {
	if err := r.cache.Delete(ctx, r.billCacheKey(bill.ID)); err != nil {
		return fmt.Errorf("failed to delete bill cache: %w", err)
	}
	if err := r.cache.Delete(ctx, fmt.Sprintf("patient_cache:%s", bill.PatientID)); err != nil {
		return fmt.Errorf("failed to delete patient cache: %w", err)
	}
	return nil
}

func (r *BillingRepository) billCacheKey(id uint) string {
	return fmt.Sprintf("bill_cache:%d", id)
}
