package kvutil

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
)

// tokenPattern matches a single NATS KV key token.
var tokenPattern = regexp.MustCompile(`^[-/_=a-zA-Z0-9]+$`)

// ValidToken reports whether s can be used as one dot-separated key token.
func ValidToken(s string) bool {
	return tokenPattern.MatchString(s)
}

// Key joins a prefix and tokens into a KV key.
//
// Returns an error naming the first token that is not a valid key token.
func Key(prefix string, tokens ...string) (string, error) {
	var b strings.Builder
	b.WriteString(prefix)
	for _, t := range tokens {
		if !ValidToken(t) {
			return "", fmt.Errorf("invalid key token %q", t)
		}
		b.WriteByte('.')
		b.WriteString(t)
	}

	return b.String(), nil
}

// ListKeys returns the keys under prefix with the prefix and its dot removed.
//
// An empty bucket yields an empty result rather than an error.
func ListKeys(ctx context.Context, kv jetstream.KeyValue, prefix string) ([]string, error) {
	lister, err := kv.ListKeysFiltered(ctx, prefix+".>")
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list KV keys: %w", err)
	}

	var out []string
	for key := range lister.Keys() {
		out = append(out, strings.TrimPrefix(key, prefix+"."))
	}

	return out, nil
}
