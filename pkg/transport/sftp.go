package transport

import (
	"context"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
)

// SFTPTransport accepts either password or private-key credentials.
type SFTPTransport struct{}

func NewSFTPTransport() *SFTPTransport {
	return &SFTPTransport{}
}

func (t *SFTPTransport) Protocol() models.Protocol {
	return models.ProtocolSFTP
}

func (t *SFTPTransport) TestConnection(ctx context.Context, cfg Config) error {
	if cfg.String("host") == "" {
		return missing(models.ProtocolSFTP, "host")
	}
	if cfg.String("username") == "" {
		return missing(models.ProtocolSFTP, "username")
	}
	if cfg.String("password") == "" && cfg.String("private_key") == "" {
		return missing(models.ProtocolSFTP, "password or private_key")
	}
	return nil
}

func (t *SFTPTransport) Send(ctx context.Context, payload string, cfg Config) error {
	if err := t.TestConnection(ctx, cfg); err != nil {
		return err
	}
	logger.Log.WithFields(map[string]interface{}{
		"protocol": models.ProtocolSFTP,
		"host":     cfg.String("host"),
		"bytes":    len(payload),
	}).Info("Payload handed to SFTP gateway")
	return nil
}
