package documents

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("edi message not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&EdiMessage{}, &EdiAcknowledgment{})
}

func (r *Repository) Create(ctx context.Context, msg *EdiMessage) error {
	now := time.Now().UTC()
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	msg.CreatedAt = now
	msg.UpdatedAt = now
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *Repository) Get(ctx context.Context, tenantID, id string) (*EdiMessage, error) {
	var msg EdiMessage
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *Repository) Save(ctx context.Context, msg *EdiMessage) error {
	msg.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(msg).Error
}

// Reprocess resets the message for another ingestion pass: status back to
// PENDING, validation cleared, retry counter bumped atomically.
func (r *Repository) Reprocess(ctx context.Context, tenantID, id, reason string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&EdiMessage{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"status":            models.StatusPending,
			"validation_status": "",
			"validation_errors": nil,
			"retry_count":       gorm.Expr("retry_count + 1"),
			"last_retry_at":     now,
			"last_retry_reason": reason,
			"updated_at":        now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAck stores the acknowledgment and links it to the original message
// in one transaction.
func (r *Repository) CreateAck(ctx context.Context, msg *EdiMessage, ack *EdiAcknowledgment) error {
	now := time.Now().UTC()
	if ack.ID == "" {
		ack.ID = uuid.New().String()
	}
	ack.CreatedAt = now
	if ack.ReceivedAt.IsZero() {
		ack.ReceivedAt = now
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ack).Error; err != nil {
			return err
		}
		return tx.Model(&EdiMessage{}).
			Where("tenant_id = ? AND id = ?", msg.TenantID, msg.ID).
			Updates(map[string]interface{}{
				"status":            models.StatusAcknowledged,
				"functional_ack_id": ack.ID,
				"processed_at":      now,
				"updated_at":        now,
			}).Error
	})
}

func (r *Repository) List(ctx context.Context, tenantID string, limit int) ([]EdiMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []EdiMessage
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *Repository) ListErrors(ctx context.Context, tenantID string, limit int) ([]EdiMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []EdiMessage
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("validation_status = ? OR status = ?", models.ValidationError, models.StatusError).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *Repository) ListByLoad(ctx context.Context, tenantID, loadID string) ([]EdiMessage, error) {
	var list []EdiMessage
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantID, models.EntityLoad, loadID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *Repository) ListByOrder(ctx context.Context, tenantID, orderID string) ([]EdiMessage, error) {
	var list []EdiMessage
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_id = ?", tenantID, orderID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// MarshalErrors renders a validation error list for the JSON column.
func MarshalErrors(errs []string) []byte {
	b, err := json.Marshal(errs)
	if err != nil {
		return []byte("[]")
	}
	return b
}
