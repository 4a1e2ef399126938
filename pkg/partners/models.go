package partners

import (
	"time"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TradingPartner is an external counterparty exchanging EDI documents with
// the platform. The ISA id is the partner's addressable identity and must
// be unique among non-deleted partners of a tenant.
type TradingPartner struct {
	ID                   string            `gorm:"primaryKey;column:id" json:"id"`
	TenantID             string            `gorm:"column:tenant_id;index" json:"tenant_id"`
	PartnerName          string            `gorm:"column:partner_name" json:"partner_name"`
	PartnerType          string            `gorm:"column:partner_type" json:"partner_type,omitempty"`
	ISAID                string            `gorm:"column:isa_id;index" json:"isa_id"`
	Protocol             models.Protocol   `gorm:"column:protocol" json:"protocol"`
	ConnectionConfig     datatypes.JSONMap `gorm:"column:connection_config" json:"connection_config,omitempty"`
	SendFunctionalAck    bool              `gorm:"column:send_functional_ack" json:"send_functional_ack"`
	RequireFunctionalAck bool              `gorm:"column:require_functional_ack" json:"require_functional_ack"`
	Active               bool              `gorm:"column:active" json:"active"`
	CreatedAt            time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time         `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt            gorm.DeletedAt    `gorm:"column:deleted_at;index" json:"-"`
}

func (TradingPartner) TableName() string {
	return "edi_trading_partners"
}
