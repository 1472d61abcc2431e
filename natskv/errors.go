package natskv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/vancouver/types"
)

// Re-exported transport errors.
var (
	ErrInvalidKey    = types.ErrInvalidKey
	ErrPublishFailed = types.ErrPublishFailed
	ErrInvalidScore  = types.ErrInvalidScore
	ErrConnectivity  = types.ErrConnectivity
)

// IsConnectivityError reports whether err was caused by an unreachable or
// disconnected NATS server.
//
// Parameters:
//   - err: Error to check
//
// Returns:
//   - bool: true for timeouts, refused or closed connections and missing stream responses
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, types.ErrConnectivity) ||
		errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "i/o timeout")
}

// putError wraps a failed write in ErrPublishFailed, adding ErrConnectivity
// when the server could not be reached.
func putError(k string, err error) error {
	if IsConnectivityError(err) && !errors.Is(err, types.ErrConnectivity) {
		return fmt.Errorf("%w: %w: put %s: %w", types.ErrPublishFailed, types.ErrConnectivity, k, err)
	}

	return fmt.Errorf("%w: put %s: %w", types.ErrPublishFailed, k, err)
}
