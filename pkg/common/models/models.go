package models

import "time"

// TransactionType is the business document kind carried by an interchange.
type TransactionType string

const (
	Transaction204 TransactionType = "204" // shipment tender
	Transaction210 TransactionType = "210" // invoice
	Transaction214 TransactionType = "214" // shipment status
	Transaction990 TransactionType = "990" // tender response
	Transaction997 TransactionType = "997" // functional acknowledgment
)

func (t TransactionType) Valid() bool {
	switch t {
	case Transaction204, Transaction210, Transaction214, Transaction990, Transaction997:
		return true
	}
	return false
}

type Direction string

const (
	DirectionInbound  Direction = "INBOUND"
	DirectionOutbound Direction = "OUTBOUND"
)

type MessageStatus string

const (
	StatusPending      MessageStatus = "PENDING"
	StatusQueued       MessageStatus = "QUEUED"
	StatusSent         MessageStatus = "SENT"
	StatusDelivered    MessageStatus = "DELIVERED"
	StatusAcknowledged MessageStatus = "ACKNOWLEDGED"
	StatusError        MessageStatus = "ERROR"
	StatusRejected     MessageStatus = "REJECTED"
)

// ControlType names one of the three nested envelope levels. Each level
// carries an independent control number sequence.
type ControlType string

const (
	ControlISA ControlType = "ISA"
	ControlGS  ControlType = "GS"
	ControlST  ControlType = "ST"
)

type Protocol string

const (
	ProtocolFTP  Protocol = "FTP"
	ProtocolSFTP Protocol = "SFTP"
	ProtocolAS2  Protocol = "AS2"
)

type ValidationStatus string

const (
	ValidationValid ValidationStatus = "VALID"
	ValidationError ValidationStatus = "ERROR"
)

type AckStatus string

const (
	AckAccepted AckStatus = "ACCEPTED"
	AckRejected AckStatus = "REJECTED"
	AckPartial  AckStatus = "PARTIAL"
)

type EntityType string

const (
	EntityLoad    EntityType = "LOAD"
	EntityInvoice EntityType = "INVOICE"
)

// DefaultEntityType maps a transaction type to the business entity it
// normally references. Invoices carry 210s; everything load-related rides
// on 204/214/990. 997s reference no entity.
func DefaultEntityType(t TransactionType) EntityType {
	switch t {
	case Transaction210:
		return EntityInvoice
	case Transaction204, Transaction214, Transaction990:
		return EntityLoad
	}
	return ""
}

// Domain event types consumed by the surrounding TMS modules.
const (
	EventDocumentReceived = "edi.document.received"
	EventDocumentError    = "edi.document.error"
	Event204Received      = "edi.204.received"
	Event204Processed     = "edi.204.processed"
	Event210Sent          = "edi.210.sent"
	Event214Sent          = "edi.214.sent"
	Event997Sent          = "edi.997.sent"
	EventPartnerConnected = "edi.partner.connected"
	EventPartnerError     = "edi.partner.error"
)

// Event is the envelope published to the EDI event topic.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// EnvelopeTriple is the matched set of formatted ISA/GS/ST control numbers
// assigned to one outbound transaction.
type EnvelopeTriple struct {
	ISA string `json:"isa"`
	GS  string `json:"gs"`
	ST  string `json:"st"`
}

type ImportDocumentRequest struct {
	TenantID        string          `json:"tenant_id"`
	UserID          string          `json:"user_id,omitempty"`
	PartnerID       string          `json:"partner_id"`
	TransactionType TransactionType `json:"transaction_type"`
	RawContent      string          `json:"raw_content"`
	Direction       Direction       `json:"direction,omitempty"`
	EntityType      EntityType      `json:"entity_type,omitempty"`
	EntityID        string          `json:"entity_id,omitempty"`
}

type ReprocessRequest struct {
	Reason string `json:"reason,omitempty"`
}

type AcknowledgeRequest struct {
	AckControlNumber string    `json:"ack_control_number"`
	AckStatus        AckStatus `json:"ack_status"`
	ErrorCodes       []string  `json:"error_codes,omitempty"`
}

// GenerateRequest is the shared portion of every outbound generation call.
type GenerateRequest struct {
	TenantID  string                 `json:"tenant_id"`
	PartnerID string                 `json:"partner_id"`
	SendNow   bool                   `json:"send_now"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

type Generate204Request struct {
	GenerateRequest
	LoadID string `json:"load_id"`
}

type Generate210Request struct {
	GenerateRequest
	InvoiceID string  `json:"invoice_id"`
	Amount    float64 `json:"amount,omitempty"`
}

type Generate214Request struct {
	GenerateRequest
	LoadID     string `json:"load_id"`
	StatusCode string `json:"status_code"`
}

type Generate990Request struct {
	GenerateRequest
	LoadID   string `json:"load_id"`
	Accepted bool   `json:"accepted"`
}

type Generate997Request struct {
	GenerateRequest
	OriginalMessageID string    `json:"original_message_id"`
	AckStatus         AckStatus `json:"ack_status"`
}

type CreatePartnerRequest struct {
	TenantID           string                 `json:"tenant_id"`
	PartnerName        string                 `json:"partner_name"`
	PartnerType        string                 `json:"partner_type,omitempty"`
	ISAID              string                 `json:"isa_id"`
	Protocol           Protocol               `json:"protocol"`
	ConnectionConfig   map[string]interface{} `json:"connection_config,omitempty"`
	SendFunctionalAck  bool                   `json:"send_functional_ack"`
	RequireFunctional  bool                   `json:"require_functional_ack"`
	Active             *bool                  `json:"active,omitempty"`
}

type UpdatePartnerRequest struct {
	PartnerName       *string                `json:"partner_name,omitempty"`
	PartnerType       *string                `json:"partner_type,omitempty"`
	ISAID             *string                `json:"isa_id,omitempty"`
	Protocol          *Protocol              `json:"protocol,omitempty"`
	ConnectionConfig  map[string]interface{} `json:"connection_config,omitempty"`
	SendFunctionalAck *bool                  `json:"send_functional_ack,omitempty"`
	RequireFunctional *bool                  `json:"require_functional_ack,omitempty"`
	Active            *bool                  `json:"active,omitempty"`
}

type CreateMappingRequest struct {
	TenantID        string                 `json:"tenant_id"`
	PartnerID       string                 `json:"partner_id"`
	TransactionType TransactionType        `json:"transaction_type"`
	FieldMap        map[string]interface{} `json:"field_map,omitempty"`
	Defaults        map[string]interface{} `json:"defaults,omitempty"`
	Transforms      map[string]interface{} `json:"transforms,omitempty"`
	ValidationRules map[string]interface{} `json:"validation_rules,omitempty"`
}

type QueueStats struct {
	TenantID string                  `json:"tenant_id"`
	Counts   map[MessageStatus]int64 `json:"counts"`
}
