package transport

import (
	"context"
	"time"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"gorm.io/gorm"
)

const (
	ActionSend    = "SEND"
	ActionConnect = "CONNECT"

	OutcomeSuccess = "SUCCESS"
	OutcomeFailed  = "FAILED"
)

// CommunicationLog is an append-only record of one delivery attempt or
// connectivity test. Rows are never updated or deleted.
type CommunicationLog struct {
	ID         uint            `gorm:"primaryKey;column:id" json:"id"`
	TenantID   string          `gorm:"column:tenant_id;index" json:"tenant_id"`
	PartnerID  string          `gorm:"column:partner_id;index" json:"partner_id"`
	MessageID  string          `gorm:"column:message_id" json:"message_id,omitempty"`
	Protocol   models.Protocol `gorm:"column:protocol" json:"protocol"`
	Action     string          `gorm:"column:action" json:"action"`
	Status     string          `gorm:"column:status" json:"status"`
	Error      string          `gorm:"column:error" json:"error,omitempty"`
	DurationMS int64           `gorm:"column:duration_ms" json:"duration_ms"`
	CreatedAt  time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (CommunicationLog) TableName() string {
	return "edi_communication_logs"
}

type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&CommunicationLog{})
}

func (r *LogRepository) Append(ctx context.Context, entry *CommunicationLog) error {
	entry.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *LogRepository) ListByPartner(ctx context.Context, tenantID, partnerID string, limit int) ([]CommunicationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []CommunicationLog
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND partner_id = ?", tenantID, partnerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
