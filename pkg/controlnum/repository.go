package controlnum

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"gorm.io/gorm"
)

var (
	// ErrRangeExceeded means the sequence reached its max value. Fatal for
	// the key; raising the range or rotating the key is an operator action.
	ErrRangeExceeded = errors.New("control number range exceeded")

	// ErrContention means the compare-and-swap never won within the retry
	// budget. Only expected under pathological concurrent load.
	ErrContention = errors.New("control number allocation contention")
)

const casAttempts = 50

type Key struct {
	TenantID        string
	ControlType     models.ControlType
	PartnerID       string
	TransactionType models.TransactionType
}

type Repository struct {
	db       *gorm.DB
	minValue int64
	maxValue int64
}

func NewRepository(db *gorm.DB, minValue, maxValue int64) *Repository {
	if minValue <= 0 {
		minValue = 1
	}
	if maxValue <= 0 {
		maxValue = 999999999
	}
	return &Repository{db: db, minValue: minValue, maxValue: maxValue}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Counter{})
}

// Next returns the next value of the sequence for key. The first call for a
// key creates the row at min value; later calls win a conditional update
// (current_number must still hold the value just read), so no two callers
// ever observe the same number. The increment that crosses max value is
// persisted and then reported as ErrRangeExceeded, matching the behavior of
// the system this engine replaced.
func (r *Repository) Next(ctx context.Context, key Key) (*Counter, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		var counter Counter
		err := r.db.WithContext(ctx).
			Where("tenant_id = ? AND control_type = ? AND partner_id = ? AND transaction_type = ?",
				key.TenantID, key.ControlType, key.PartnerID, key.TransactionType).
			First(&counter).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			created, createErr := r.create(ctx, key)
			if createErr == nil {
				return created, nil
			}
			if isDuplicateKey(createErr) {
				// Lost the creation race; the row exists now.
				continue
			}
			return nil, createErr
		}
		if err != nil {
			return nil, fmt.Errorf("loading control counter: %w", err)
		}

		next := counter.CurrentNumber + 1
		res := r.db.WithContext(ctx).Model(&Counter{}).
			Where("id = ? AND current_number = ?", counter.ID, counter.CurrentNumber).
			Updates(map[string]interface{}{
				"current_number": next,
				"updated_at":     time.Now().UTC(),
			})
		if res.Error != nil {
			return nil, fmt.Errorf("incrementing control counter: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Someone else advanced the sequence first.
			continue
		}

		counter.CurrentNumber = next
		if next > counter.MaxValue {
			return nil, fmt.Errorf("%w: key %s/%s/%s/%s at %d (max %d)",
				ErrRangeExceeded, key.TenantID, key.ControlType, key.PartnerID, key.TransactionType,
				next, counter.MaxValue)
		}
		return &counter, nil
	}

	return nil, ErrContention
}

func (r *Repository) create(ctx context.Context, key Key) (*Counter, error) {
	now := time.Now().UTC()
	counter := Counter{
		TenantID:        key.TenantID,
		ControlType:     key.ControlType,
		PartnerID:       key.PartnerID,
		TransactionType: key.TransactionType,
		CurrentNumber:   r.minValue,
		MinValue:        r.minValue,
		MaxValue:        r.maxValue,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := r.db.WithContext(ctx).Create(&counter).Error; err != nil {
		return nil, err
	}
	return &counter, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
