package partners

import (
	"context"
	"time"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/kafka"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/transport"
)

type Service struct {
	repo       *Repository
	transports *transport.Registry
	commLog    *transport.LogRepository
	producer   kafka.Publisher
}

func NewService(repo *Repository, transports *transport.Registry, commLog *transport.LogRepository, producer kafka.Publisher) *Service {
	return &Service{
		repo:       repo,
		transports: transports,
		commLog:    commLog,
		producer:   producer,
	}
}

func (s *Service) Create(ctx context.Context, req models.CreatePartnerRequest) (*TradingPartner, error) {
	return s.repo.Create(ctx, req)
}

func (s *Service) Update(ctx context.Context, tenantID, id string, req models.UpdatePartnerRequest) (*TradingPartner, error) {
	return s.repo.Update(ctx, tenantID, id, req)
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (*TradingPartner, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID string) ([]TradingPartner, error) {
	return s.repo.List(ctx, tenantID)
}

func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	return s.repo.Delete(ctx, tenantID, id)
}

func (s *Service) CommunicationLogs(ctx context.Context, tenantID, id string, limit int) ([]transport.CommunicationLog, error) {
	return s.commLog.ListByPartner(ctx, tenantID, id, limit)
}

// TestConnection runs the partner's transport connectivity check. The
// communication log row is written on success and failure alike; a
// transport failure is returned to the caller after logging.
func (s *Service) TestConnection(ctx context.Context, tenantID, id string) error {
	partner, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	tr := s.transports.For(partner.Protocol)
	started := time.Now()
	connErr := tr.TestConnection(ctx, transport.Config(partner.ConnectionConfig))
	elapsed := time.Since(started)

	entry := &transport.CommunicationLog{
		TenantID:   tenantID,
		PartnerID:  partner.ID,
		Protocol:   partner.Protocol,
		Action:     transport.ActionConnect,
		Status:     transport.OutcomeSuccess,
		DurationMS: elapsed.Milliseconds(),
	}
	if connErr != nil {
		entry.Status = transport.OutcomeFailed
		entry.Error = connErr.Error()
	}
	if logErr := s.commLog.Append(ctx, entry); logErr != nil {
		logger.Log.WithError(logErr).Error("failed to append communication log")
	}

	if connErr != nil {
		s.publish(ctx, models.EventPartnerError, map[string]interface{}{
			"tenant_id":  tenantID,
			"partner_id": partner.ID,
			"protocol":   partner.Protocol,
			"error":      connErr.Error(),
		})
		return connErr
	}

	s.publish(ctx, models.EventPartnerConnected, map[string]interface{}{
		"tenant_id":  tenantID,
		"partner_id": partner.ID,
		"protocol":   partner.Protocol,
	})
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishEvent(ctx, eventType, "edi-partners", data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Error("failed to publish partner event")
	}
}
