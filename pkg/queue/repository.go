package queue

import (
	"context"
	"errors"
	"time"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/documents"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("queued message not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the tenant's backlog, ordered by status then age. The
// ordering is a fairness guarantee, not a strict priority queue.
func (r *Repository) List(ctx context.Context, tenantID string) ([]documents.EdiMessage, error) {
	var list []documents.EdiMessage
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantID,
			[]models.MessageStatus{models.StatusPending, models.StatusQueued, models.StatusError}).
		Order("status ASC").
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) Retry(ctx context.Context, tenantID, id string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&documents.EdiMessage{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"status":        models.StatusQueued,
			"retry_count":   gorm.Expr("retry_count + 1"),
			"last_retry_at": now,
			"updated_at":    now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Cancel is terminal; a REJECTED message is never picked up by Process.
func (r *Repository) Cancel(ctx context.Context, tenantID, id string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&documents.EdiMessage{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"status":       models.StatusRejected,
			"processed_at": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ProcessBatch moves up to batchSize pending/queued messages to SENT,
// oldest first, in a single update. Returns how many were transitioned.
func (r *Repository) ProcessBatch(ctx context.Context, tenantID string, batchSize int) (int, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&documents.EdiMessage{}).
		Where("tenant_id = ? AND status IN ?", tenantID,
			[]models.MessageStatus{models.StatusPending, models.StatusQueued}).
		Order("created_at ASC").
		Limit(batchSize).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&documents.EdiMessage{}).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Updates(map[string]interface{}{
			"status":       models.StatusSent,
			"processed_at": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// Stats counts the tenant's non-deleted messages per status.
func (r *Repository) Stats(ctx context.Context, tenantID string) (map[models.MessageStatus]int64, error) {
	type row struct {
		Status models.MessageStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&documents.EdiMessage{}).
		Select("status, COUNT(*) AS count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.MessageStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
