package outbound

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/kafka"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/controlnum"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/documents"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/partners"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/transport"
	"gorm.io/datatypes"
)

type Service struct {
	docs       *documents.Repository
	numbers    *controlnum.Service
	generators *Registry
	partners   *partners.Repository
	transports *transport.Registry
	commLog    *transport.LogRepository
	producer   kafka.Publisher
}

func NewService(
	docs *documents.Repository,
	numbers *controlnum.Service,
	generators *Registry,
	partnerRepo *partners.Repository,
	transports *transport.Registry,
	commLog *transport.LogRepository,
	producer kafka.Publisher,
) *Service {
	return &Service{
		docs:       docs,
		numbers:    numbers,
		generators: generators,
		partners:   partnerRepo,
		transports: transports,
		commLog:    commLog,
		producer:   producer,
	}
}

// Generate204 builds and persists an outbound shipment tender.
func (s *Service) Generate204(ctx context.Context, req models.Generate204Request) (*documents.EdiMessage, error) {
	payload := mergePayload(req.Payload, map[string]interface{}{"loadId": req.LoadID})
	msg, err := s.generate(ctx, req.GenerateRequest, models.Transaction204, payload, models.EntityLoad, req.LoadID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, models.Event204Processed, map[string]interface{}{
		"tenant_id":  req.TenantID,
		"message_id": msg.MessageID,
		"id":         msg.ID,
		"load_id":    req.LoadID,
	})
	return msg, nil
}

// Generate210 builds and persists an outbound invoice.
func (s *Service) Generate210(ctx context.Context, req models.Generate210Request) (*documents.EdiMessage, error) {
	payload := mergePayload(req.Payload, map[string]interface{}{"invoiceId": req.InvoiceID})
	if req.Amount != 0 {
		payload["amount"] = fmt.Sprintf("%.2f", req.Amount)
	}
	msg, err := s.generate(ctx, req.GenerateRequest, models.Transaction210, payload, models.EntityInvoice, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, models.Event210Sent, map[string]interface{}{
		"tenant_id":  req.TenantID,
		"message_id": msg.MessageID,
		"id":         msg.ID,
		"invoice_id": req.InvoiceID,
	})
	return msg, nil
}

// Generate214 builds and persists an outbound shipment status update.
func (s *Service) Generate214(ctx context.Context, req models.Generate214Request) (*documents.EdiMessage, error) {
	payload := mergePayload(req.Payload, map[string]interface{}{
		"loadId":     req.LoadID,
		"statusCode": req.StatusCode,
	})
	msg, err := s.generate(ctx, req.GenerateRequest, models.Transaction214, payload, models.EntityLoad, req.LoadID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, models.Event214Sent, map[string]interface{}{
		"tenant_id":   req.TenantID,
		"message_id":  msg.MessageID,
		"id":          msg.ID,
		"load_id":     req.LoadID,
		"status_code": req.StatusCode,
	})
	return msg, nil
}

// Generate990 builds and persists an outbound tender response.
func (s *Service) Generate990(ctx context.Context, req models.Generate990Request) (*documents.EdiMessage, error) {
	payload := mergePayload(req.Payload, map[string]interface{}{
		"loadId":   req.LoadID,
		"accepted": fmt.Sprintf("%t", req.Accepted),
	})
	return s.generate(ctx, req.GenerateRequest, models.Transaction990, payload, models.EntityLoad, req.LoadID)
}

// Generate997 builds and persists an outbound functional acknowledgment for
// a previously received message.
func (s *Service) Generate997(ctx context.Context, req models.Generate997Request) (*documents.EdiMessage, error) {
	original, err := s.docs.Get(ctx, req.TenantID, req.OriginalMessageID)
	if err != nil {
		return nil, err
	}
	payload := mergePayload(req.Payload, map[string]interface{}{
		"originalMessageId": original.MessageID,
		"originalGroupCode": functionalGroupCode(original.TransactionType),
		"ackStatus":         string(req.AckStatus),
	})
	msg, err := s.generate(ctx, req.GenerateRequest, models.Transaction997, payload, "", "")
	if err != nil {
		return nil, err
	}
	s.publish(ctx, models.Event997Sent, map[string]interface{}{
		"tenant_id":   req.TenantID,
		"message_id":  msg.MessageID,
		"id":          msg.ID,
		"original_id": original.ID,
		"ack_status":  req.AckStatus,
	})
	return msg, nil
}

func (s *Service) generate(ctx context.Context, req models.GenerateRequest, t models.TransactionType, payload map[string]interface{}, entityType models.EntityType, entityID string) (*documents.EdiMessage, error) {
	gen, err := s.generators.For(t)
	if err != nil {
		return nil, err
	}

	triple, err := s.numbers.AllocateTriple(ctx, req.TenantID, req.PartnerID, t)
	if err != nil {
		return nil, fmt.Errorf("allocating envelope triple: %w", err)
	}

	receiverID := req.PartnerID
	partner, pErr := s.partners.Get(ctx, req.TenantID, req.PartnerID)
	if pErr == nil {
		receiverID = partner.ISAID
	}

	raw, err := gen.Generate(payload, triple, receiverID)
	if err != nil {
		return nil, fmt.Errorf("generating %s content: %w", t, err)
	}

	msg := &documents.EdiMessage{
		TenantID:         req.TenantID,
		PartnerID:        req.PartnerID,
		MessageID:        "OUT-" + uuid.New().String(),
		TransactionType:  t,
		Direction:        models.DirectionOutbound,
		Status:           models.StatusQueued,
		ISAControlNumber: triple.ISA,
		GSControlNumber:  triple.GS,
		STControlNumber:  triple.ST,
		EntityType:       entityType,
		EntityID:         entityID,
		RawContent:       raw,
		ParsedContent:    datatypes.JSONMap(payload),
		ValidationStatus: models.ValidationValid,
	}
	if req.SendNow {
		now := time.Now().UTC()
		msg.Status = models.StatusSent
		msg.ProcessedAt = &now
	}

	if err := s.docs.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("persisting outbound message: %w", err)
	}

	if req.SendNow {
		// Delivery is a handoff; the persisted SENT record is the source of
		// truth and a transport failure here surfaces through the comm log.
		if err := s.deliver(ctx, msg, partner); err != nil {
			logger.ForTenant(req.TenantID).WithError(err).
				WithField("message_id", msg.MessageID).
				Warn("immediate delivery failed")
		}
	}
	return msg, nil
}

// SendDocument marks a queued message sent and hands it to the partner's
// transport. The communication log entry is written whether or not the
// transport succeeds; transport failures are returned to the caller.
func (s *Service) SendDocument(ctx context.Context, tenantID, id string) (*documents.EdiMessage, error) {
	msg, err := s.docs.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg.Status = models.StatusSent
	msg.ProcessedAt = &now
	if err := s.docs.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("marking message sent: %w", err)
	}

	partner, pErr := s.partners.Get(ctx, tenantID, msg.PartnerID)
	if pErr != nil {
		logger.ForTenant(tenantID).WithError(pErr).
			WithField("partner_id", msg.PartnerID).
			Warn("partner unreachable, using baseline protocol")
		partner = nil
	}

	if err := s.deliver(ctx, msg, partner); err != nil {
		return msg, err
	}
	return msg, nil
}

func (s *Service) deliver(ctx context.Context, msg *documents.EdiMessage, partner *partners.TradingPartner) error {
	protocol := models.ProtocolFTP
	var cfg transport.Config
	if partner != nil {
		protocol = partner.Protocol
		cfg = transport.Config(partner.ConnectionConfig)
	}

	tr := s.transports.For(protocol)
	started := time.Now()
	sendErr := tr.Send(ctx, msg.RawContent, cfg)
	elapsed := time.Since(started)

	entry := &transport.CommunicationLog{
		TenantID:   msg.TenantID,
		PartnerID:  msg.PartnerID,
		MessageID:  msg.MessageID,
		Protocol:   protocol,
		Action:     transport.ActionSend,
		Status:     transport.OutcomeSuccess,
		DurationMS: elapsed.Milliseconds(),
	}
	if sendErr != nil {
		entry.Status = transport.OutcomeFailed
		entry.Error = sendErr.Error()
	}
	if logErr := s.commLog.Append(ctx, entry); logErr != nil {
		logger.Log.WithError(logErr).Error("failed to append communication log")
	}
	return sendErr
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishEvent(ctx, eventType, "edi-outbound", data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Error("failed to publish outbound event")
	}
}

func mergePayload(base map[string]interface{}, overrides map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
