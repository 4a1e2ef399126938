package mappings

import (
	"time"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionMapping holds the per-partner field-mapping, default,
// transform and validation rule sets consulted by generators and the
// parser. At most one active mapping exists per (tenant, partner,
// transaction type).
type TransactionMapping struct {
	ID              string                 `gorm:"primaryKey;column:id" json:"id"`
	TenantID        string                 `gorm:"column:tenant_id;index" json:"tenant_id"`
	PartnerID       string                 `gorm:"column:partner_id;index" json:"partner_id"`
	TransactionType models.TransactionType `gorm:"column:transaction_type" json:"transaction_type"`
	FieldMap        datatypes.JSONMap      `gorm:"column:field_map" json:"field_map,omitempty"`
	Defaults        datatypes.JSONMap      `gorm:"column:defaults" json:"defaults,omitempty"`
	Transforms      datatypes.JSONMap      `gorm:"column:transforms" json:"transforms,omitempty"`
	ValidationRules datatypes.JSONMap      `gorm:"column:validation_rules" json:"validation_rules,omitempty"`
	Active          bool                   `gorm:"column:active" json:"active"`
	CreatedAt       time.Time              `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time              `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt       gorm.DeletedAt         `gorm:"column:deleted_at;index" json:"-"`
}

func (TransactionMapping) TableName() string {
	return "edi_transaction_mappings"
}
