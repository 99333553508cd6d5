// Package cache implements the read path of the cache-aside pattern shared
// by the reference-data queries: check the store first, recompute from the
// system of record on miss, and schedule a best-effort population write.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Store is a byte-oriented key/value store with per-key expiry.
type Store interface {
	// Get returns the payload for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// Writer schedules a cache population without blocking the caller. A failed
// or dropped write must never surface to the read path.
type Writer interface {
	Schedule(key string, payload []byte, ttl time.Duration)
}

// Key builds the canonical cache key for a normalized parameter tuple.
// Distinct tuples always produce distinct keys: parts are rendered in order
// and joined with a fixed delimiter under a dataset prefix,
// e.g. Key("info", 1, 10) == "info:1-10".
func Key(prefix string, parts ...any) string {
	rendered := make([]string, len(parts))
	for i, p := range parts {
		rendered[i] = fmt.Sprintf("%v", p)
	}
	return prefix + ":" + strings.Join(rendered, "-")
}

// Lookup runs the cache-aside read for key. On a hit the stored payload is
// decoded and returned unchanged. On a miss, compute is invoked and its
// result is scheduled for population with ttl. A store read error or an
// undecodable payload degrades to a recompute instead of failing the read.
// The returned bool reports whether the value came from the cache.
func Lookup[T any](ctx context.Context, store Store, writer Writer, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, bool, error) {
	var zero T

	payload, ok, err := store.Get(ctx, key)
	if err == nil && ok {
		var cached T
		if jsonErr := json.Unmarshal(payload, &cached); jsonErr == nil {
			return cached, true, nil
		}
	}

	result, err := compute(ctx)
	if err != nil {
		return zero, false, err
	}

	if encoded, jsonErr := json.Marshal(result); jsonErr == nil {
		writer.Schedule(key, encoded, ttl)
	}

	return result, false, nil
}
