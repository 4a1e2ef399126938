package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
)

// ErrBadConfig means the partner's connection configuration is missing
// fields the protocol requires.
var ErrBadConfig = errors.New("incomplete transport configuration")

// Config is the protocol-specific connection block stored on the trading
// partner record.
type Config map[string]interface{}

func (c Config) String(key string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

// Transport is the delivery capability for one communication protocol.
// Implementations validate connectivity and hand payloads off; nothing
// protocol-specific leaks to callers beyond the tag used to pick one.
type Transport interface {
	Protocol() models.Protocol
	TestConnection(ctx context.Context, cfg Config) error
	Send(ctx context.Context, payload string, cfg Config) error
}

func missing(protocol models.Protocol, field string) error {
	return fmt.Errorf("%w: %s requires %s", ErrBadConfig, protocol, field)
}
