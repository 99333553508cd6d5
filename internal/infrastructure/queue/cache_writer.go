package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicstats/identity-api/internal/api/metrics"
	"github.com/civicstats/identity-api/internal/core/cache"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

type write struct {
	key     string
	payload []byte
	ttl     time.Duration
}

// CacheWriter performs cache population writes off the request path.
// Writes are sharded to a fixed set of workers by cache key, so successive
// writes for the same key are applied in order. A full worker channel drops
// the write: population is best-effort and the next miss recomputes anyway.
type CacheWriter struct {
	workers []chan write
	store   cache.Store
	log     zerolog.Logger
}

// NewCacheWriter creates a CacheWriter with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCacheWriter(numWorkers int, store cache.Store, log zerolog.Logger) *CacheWriter {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	w := &CacheWriter{
		workers: make([]chan write, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range w.workers {
		w.workers[i] = make(chan write, channelBuffer)
	}
	return w
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (w *CacheWriter) Start(ctx context.Context) {
	for i, ch := range w.workers {
		go w.runWorker(ctx, i, ch)
	}
}

// Schedule enqueues a population write without blocking the caller.
func (w *CacheWriter) Schedule(key string, payload []byte, ttl time.Duration) {
	select {
	case w.workers[w.shardIndex(key)] <- write{key: key, payload: payload, ttl: ttl}:
	default:
		w.log.Warn().Str("key", key).Msg("cache write dropped, worker queue full")
		metrics.CacheWriteFailuresTotal.WithLabelValues(dataset(key)).Inc()
	}
}

// shardIndex maps a cache key deterministically to a worker index.
func (w *CacheWriter) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(w.workers)
}

func (w *CacheWriter) runWorker(ctx context.Context, id int, ch <-chan write) {
	gauge := metrics.CacheWriteQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case wr, ok := <-ch:
			if !ok {
				return
			}
			gauge.Set(float64(len(ch)))
			if err := w.store.Set(ctx, wr.key, wr.payload, wr.ttl); err != nil {
				w.log.Warn().Err(err).Str("key", wr.key).Msg("cache write failed")
				metrics.CacheWriteFailuresTotal.WithLabelValues(dataset(wr.key)).Inc()
			}
		}
	}
}

// dataset extracts the key prefix for metric labelling.
func dataset(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "unknown"
}
