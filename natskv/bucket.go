package natskv

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/vancouver/internal/kvutil"
	"github.com/arloliu/vancouver/types"
)

// EnsureBucket creates a single-history KV bucket or opens the existing one.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - bucket: Bucket name
//   - retries: Maximum number of attempts (3 when <= 0)
//
// Returns:
//   - jetstream.KeyValue: The KV bucket
//   - error: Creation failure after all attempts
func EnsureBucket(ctx context.Context, js jetstream.JetStream, bucket string, retries int) (jetstream.KeyValue, error) {
	return kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "vancouver " + bucket,
		History:     1,
	}, retries)
}

// key builds a KV key, wrapping token errors in types.ErrInvalidKey.
func key(prefix string, tokens ...string) (string, error) {
	k, err := kvutil.Key(prefix, tokens...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrInvalidKey, err)
	}

	return k, nil
}
