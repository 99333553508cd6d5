// Package metrics defines the custom Prometheus metrics for the identity
// API. It is the single source of truth for metric names, labels, and help
// strings; request-level metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// CacheLookupsTotal counts cache-aside lookups on the reference datasets.
// Labels:
//   - dataset: "info" or "gdp"
//   - result:  "hit" or "miss"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of query-cache lookups, labelled by dataset and result.",
	},
	[]string{"dataset", "result"},
)

// CacheWriteFailuresTotal counts cache population writes that failed. The
// read path is unaffected by these; the counter is the operational signal
// that the cache is degraded.
var CacheWriteFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_write_failures_total",
		Help:      "Total number of failed cache population writes.",
	},
	[]string{"dataset"},
)

// CacheWriteQueueDepth tracks pending population writes per writer worker.
var CacheWriteQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_write_queue_depth",
		Help:      "Current number of cache writes pending in each writer worker channel.",
	},
	[]string{"worker_id"},
)

// SmsSentTotal counts SMS verification-code deliveries.
// Label:
//   - result: "ok" or "error"
var SmsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sms_sent_total",
		Help:      "Total number of SMS verification code sends, labelled by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts completed code exchanges.
// Label:
//   - mode: "wechat" or "dev"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of completed code exchanges, labelled by login mode.",
	},
	[]string{"mode"},
)

// TokensIssuedTotal counts access tokens minted after a code exchange.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued.",
	},
)
