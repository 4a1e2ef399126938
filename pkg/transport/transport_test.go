package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
)

func init() {
	logger.Init()
}

func TestFTPTransport_RequiresCredentials(t *testing.T) {
	tr := NewFTPTransport()
	ctx := context.Background()

	err := tr.TestConnection(ctx, Config{"host": "ftp.example.com"})
	if !errors.Is(err, ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig, got %v", err)
	}

	full := Config{"host": "ftp.example.com", "username": "u", "password": "p"}
	if err := tr.TestConnection(ctx, full); err != nil {
		t.Fatalf("expected success with full config: %v", err)
	}
	if err := tr.Send(ctx, "payload", full); err != nil {
		t.Fatalf("send: %v", err)
	}
}

func TestSFTPTransport_AcceptsKeyAuth(t *testing.T) {
	tr := NewSFTPTransport()
	ctx := context.Background()

	if err := tr.TestConnection(ctx, Config{"host": "h", "username": "u"}); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig without credentials, got %v", err)
	}
	if err := tr.TestConnection(ctx, Config{"host": "h", "username": "u", "private_key": "key"}); err != nil {
		t.Fatalf("key auth should satisfy sftp: %v", err)
	}
}

func TestAS2Transport_RequiresIdentifiers(t *testing.T) {
	tr := NewAS2Transport()
	ctx := context.Background()

	if err := tr.TestConnection(ctx, Config{"url": "https://as2.example.com"}); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig without as2 ids, got %v", err)
	}
	full := Config{"url": "https://as2.example.com", "as2_from": "US", "as2_to": "THEM"}
	if err := tr.TestConnection(ctx, full); err != nil {
		t.Fatalf("expected success: %v", err)
	}
}

func TestRegistry_FallsBackToFTP(t *testing.T) {
	r := NewRegistry()

	if got := r.For(models.ProtocolSFTP).Protocol(); got != models.ProtocolSFTP {
		t.Fatalf("expected SFTP, got %s", got)
	}
	if got := r.For(models.ProtocolAS2).Protocol(); got != models.ProtocolAS2 {
		t.Fatalf("expected AS2, got %s", got)
	}
	if got := r.For("").Protocol(); got != models.ProtocolFTP {
		t.Fatalf("expected FTP fallback, got %s", got)
	}
	if got := r.For("X400").Protocol(); got != models.ProtocolFTP {
		t.Fatalf("expected FTP fallback for unknown protocol, got %s", got)
	}
}
