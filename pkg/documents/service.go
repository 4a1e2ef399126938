package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/kafka"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/controlnum"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/parser"
	"gorm.io/datatypes"
)

type Service struct {
	repo     *Repository
	numbers  *controlnum.Service
	parser   parser.Parser
	producer kafka.Publisher
}

func NewService(repo *Repository, numbers *controlnum.Service, p parser.Parser, producer kafka.Publisher) *Service {
	return &Service{
		repo:     repo,
		numbers:  numbers,
		parser:   p,
		producer: producer,
	}
}

// Import ingests one raw interchange. A payload the parser rejects is still
// persisted, in ERROR state; the caller inspects the returned status, the
// call itself does not fail for malformed content.
func (s *Service) Import(ctx context.Context, req models.ImportDocumentRequest) (*EdiMessage, error) {
	triple, err := s.numbers.AllocateTriple(ctx, req.TenantID, req.PartnerID, req.TransactionType)
	if err != nil {
		return nil, fmt.Errorf("allocating envelope triple: %w", err)
	}

	direction := req.Direction
	if direction == "" {
		direction = models.DirectionInbound
	}
	prefix := "IN-"
	if direction == models.DirectionOutbound {
		prefix = "OUT-"
	}

	msg := &EdiMessage{
		TenantID:         req.TenantID,
		PartnerID:        req.PartnerID,
		MessageID:        prefix + uuid.New().String(),
		TransactionType:  req.TransactionType,
		Direction:        direction,
		ISAControlNumber: triple.ISA,
		GSControlNumber:  triple.GS,
		STControlNumber:  triple.ST,
		RawContent:       req.RawContent,
		EntityType:       req.EntityType,
		EntityID:         req.EntityID,
	}
	if msg.EntityType == "" {
		msg.EntityType = models.DefaultEntityType(req.TransactionType)
	}

	parsed, parseErr := s.parser.Parse(req.RawContent)
	if parseErr != nil {
		msg.Status = models.StatusError
		msg.ValidationStatus = models.ValidationError
		msg.ValidationErrors = datatypes.JSON(MarshalErrors([]string{parseErr.Error()}))
	} else {
		now := time.Now().UTC()
		msg.Status = models.StatusDelivered
		msg.ValidationStatus = models.ValidationValid
		msg.ParsedContent = datatypes.JSONMap(parsed)
		msg.ProcessedAt = &now
		if msg.EntityID == "" {
			msg.EntityID = inferEntityID(parsed)
		}
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("persisting edi message: %w", err)
	}

	if parseErr != nil {
		logger.ForTenant(req.TenantID).WithError(parseErr).
			WithField("message_id", msg.MessageID).
			Warn("inbound document failed validation")
		s.publish(ctx, models.EventDocumentError, map[string]interface{}{
			"tenant_id":  req.TenantID,
			"message_id": msg.MessageID,
			"id":         msg.ID,
			"error":      parseErr.Error(),
		})
		return msg, nil
	}

	s.publish(ctx, models.EventDocumentReceived, map[string]interface{}{
		"tenant_id":        req.TenantID,
		"message_id":       msg.MessageID,
		"id":               msg.ID,
		"transaction_type": msg.TransactionType,
	})
	if msg.TransactionType == models.Transaction204 {
		s.publish(ctx, models.Event204Received, map[string]interface{}{
			"tenant_id":  req.TenantID,
			"message_id": msg.MessageID,
			"id":         msg.ID,
			"load_id":    msg.EntityID,
		})
	}
	return msg, nil
}

// Reprocess resets the message to PENDING so the external process can run
// it through ingestion again; the parser is not re-run here.
func (s *Service) Reprocess(ctx context.Context, tenantID, id, reason string) (*EdiMessage, error) {
	if err := s.repo.Reprocess(ctx, tenantID, id, reason); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, tenantID, id)
}

// Acknowledge records a functional acknowledgment against the original
// message and moves it to ACKNOWLEDGED.
func (s *Service) Acknowledge(ctx context.Context, tenantID, id string, req models.AcknowledgeRequest) (*EdiAcknowledgment, error) {
	msg, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	ack := &EdiAcknowledgment{
		TenantID:         tenantID,
		MessageID:        msg.ID,
		AckControlNumber: req.AckControlNumber,
		AckStatus:        req.AckStatus,
	}
	if len(req.ErrorCodes) > 0 {
		ack.ErrorCodes = datatypes.JSON(MarshalErrors(req.ErrorCodes))
	}
	if err := s.repo.CreateAck(ctx, msg, ack); err != nil {
		return nil, fmt.Errorf("recording acknowledgment: %w", err)
	}

	s.publish(ctx, models.Event997Sent, map[string]interface{}{
		"tenant_id":          tenantID,
		"original_id":        msg.ID,
		"ack_id":             ack.ID,
		"ack_control_number": ack.AckControlNumber,
		"ack_status":         ack.AckStatus,
	})
	return ack, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (*EdiMessage, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID string, limit int) ([]EdiMessage, error) {
	return s.repo.List(ctx, tenantID, limit)
}

func (s *Service) ListErrors(ctx context.Context, tenantID string, limit int) ([]EdiMessage, error) {
	return s.repo.ListErrors(ctx, tenantID, limit)
}

func (s *Service) ListByLoad(ctx context.Context, tenantID, loadID string) ([]EdiMessage, error) {
	return s.repo.ListByLoad(ctx, tenantID, loadID)
}

func (s *Service) ListByOrder(ctx context.Context, tenantID, orderID string) ([]EdiMessage, error) {
	return s.repo.ListByOrder(ctx, tenantID, orderID)
}

// inferEntityID probes the parsed payload in a fixed order; downstream
// event payloads depend on this precedence.
func inferEntityID(parsed map[string]interface{}) string {
	for _, key := range []string{"invoiceId", "loadId", "orderId"} {
		if v, ok := parsed[key]; ok {
			if str := asString(v); str != "" {
				return str
			}
		}
	}
	return ""
}

func asString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%v", val)
	case int:
		return fmt.Sprintf("%d", val)
	}
	return ""
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishEvent(ctx, eventType, "edi-documents", data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Error("failed to publish document event")
	}
}
