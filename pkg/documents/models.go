package documents

import (
	"time"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EdiMessage is one inbound or outbound interchange transaction. Rows are
// soft-deleted only; the audit trail outlives the message.
type EdiMessage struct {
	ID               string                  `gorm:"primaryKey;column:id" json:"id"`
	TenantID         string                  `gorm:"column:tenant_id;index" json:"tenant_id"`
	PartnerID        string                  `gorm:"column:partner_id;index" json:"partner_id"`
	MessageID        string                  `gorm:"column:message_id;uniqueIndex" json:"message_id"`
	TransactionType  models.TransactionType  `gorm:"column:transaction_type" json:"transaction_type"`
	Direction        models.Direction        `gorm:"column:direction" json:"direction"`
	Status           models.MessageStatus    `gorm:"column:status;index" json:"status"`
	ISAControlNumber string                  `gorm:"column:isa_control_number" json:"isa_control_number"`
	GSControlNumber  string                  `gorm:"column:gs_control_number" json:"gs_control_number"`
	STControlNumber  string                  `gorm:"column:st_control_number" json:"st_control_number"`
	EntityType       models.EntityType       `gorm:"column:entity_type" json:"entity_type,omitempty"`
	EntityID         string                  `gorm:"column:entity_id;index" json:"entity_id,omitempty"`
	RawContent       string                  `gorm:"column:raw_content;type:text" json:"raw_content"`
	ParsedContent    datatypes.JSONMap       `gorm:"column:parsed_content" json:"parsed_content,omitempty"`
	ValidationStatus models.ValidationStatus `gorm:"column:validation_status" json:"validation_status,omitempty"`
	ValidationErrors datatypes.JSON          `gorm:"column:validation_errors" json:"validation_errors,omitempty"`
	RetryCount       int                     `gorm:"column:retry_count" json:"retry_count"`
	LastRetryAt      *time.Time              `gorm:"column:last_retry_at" json:"last_retry_at,omitempty"`
	LastRetryReason  string                  `gorm:"column:last_retry_reason" json:"last_retry_reason,omitempty"`
	ProcessedAt      *time.Time              `gorm:"column:processed_at" json:"processed_at,omitempty"`
	FunctionalAckID  *string                 `gorm:"column:functional_ack_id" json:"functional_ack_id,omitempty"`
	CreatedAt        time.Time               `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt        time.Time               `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt        gorm.DeletedAt          `gorm:"column:deleted_at;index" json:"-"`
}

func (EdiMessage) TableName() string {
	return "edi_messages"
}

// EdiAcknowledgment is a 997-style functional acknowledgment tied to an
// original message. Immutable after creation.
type EdiAcknowledgment struct {
	ID               string           `gorm:"primaryKey;column:id" json:"id"`
	TenantID         string           `gorm:"column:tenant_id;index" json:"tenant_id"`
	MessageID        string           `gorm:"column:message_id;index" json:"message_id"`
	AckControlNumber string           `gorm:"column:ack_control_number" json:"ack_control_number"`
	AckStatus        models.AckStatus `gorm:"column:ack_status" json:"ack_status"`
	ErrorCodes       datatypes.JSON   `gorm:"column:error_codes" json:"error_codes,omitempty"`
	ReceivedAt       time.Time        `gorm:"column:received_at" json:"received_at"`
	CreatedAt        time.Time        `gorm:"column:created_at" json:"created_at"`
}

func (EdiAcknowledgment) TableName() string {
	return "edi_acknowledgments"
}
