package transport

import (
	"context"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
)

// AS2Transport needs the endpoint URL plus both AS2 identifiers to address
// an exchange; MDN and signing options ride along in the same config block.
type AS2Transport struct{}

func NewAS2Transport() *AS2Transport {
	return &AS2Transport{}
}

func (t *AS2Transport) Protocol() models.Protocol {
	return models.ProtocolAS2
}

func (t *AS2Transport) TestConnection(ctx context.Context, cfg Config) error {
	if cfg.String("url") == "" {
		return missing(models.ProtocolAS2, "url")
	}
	if cfg.String("as2_from") == "" {
		return missing(models.ProtocolAS2, "as2_from")
	}
	if cfg.String("as2_to") == "" {
		return missing(models.ProtocolAS2, "as2_to")
	}
	return nil
}

func (t *AS2Transport) Send(ctx context.Context, payload string, cfg Config) error {
	if err := t.TestConnection(ctx, cfg); err != nil {
		return err
	}
	logger.Log.WithFields(map[string]interface{}{
		"protocol": models.ProtocolAS2,
		"url":      cfg.String("url"),
		"as2_to":   cfg.String("as2_to"),
		"bytes":    len(payload),
	}).Info("Payload handed to AS2 gateway")
	return nil
}
