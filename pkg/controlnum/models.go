package controlnum

import (
	"time"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
)

// Counter is one monotonic control number sequence. A sequence is keyed by
// (tenant, control type, trading partner, transaction type); the three
// envelope levels of one partner/type pair are therefore independent rows.
type Counter struct {
	ID              uint                   `gorm:"primaryKey;column:id" json:"id"`
	TenantID        string                 `gorm:"column:tenant_id;uniqueIndex:uk_control_counters_key" json:"tenant_id"`
	ControlType     models.ControlType     `gorm:"column:control_type;uniqueIndex:uk_control_counters_key" json:"control_type"`
	PartnerID       string                 `gorm:"column:partner_id;uniqueIndex:uk_control_counters_key" json:"partner_id"`
	TransactionType models.TransactionType `gorm:"column:transaction_type;uniqueIndex:uk_control_counters_key" json:"transaction_type"`
	CurrentNumber   int64                  `gorm:"column:current_number" json:"current_number"`
	MinValue        int64                  `gorm:"column:min_value" json:"min_value"`
	MaxValue        int64                  `gorm:"column:max_value" json:"max_value"`
	Prefix          string                 `gorm:"column:prefix" json:"prefix,omitempty"`
	Suffix          string                 `gorm:"column:suffix" json:"suffix,omitempty"`
	CreatedAt       time.Time              `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time              `gorm:"column:updated_at" json:"updated_at"`
}

func (Counter) TableName() string {
	return "edi_control_number_counters"
}
