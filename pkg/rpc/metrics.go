package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the gateway client. Every
// metric carries a chain label so that one Metrics value can serve a
// whole factory of per-chain clients.
type Metrics struct {
	// Connection lifecycle metrics
	ConnectionState    *prometheus.GaugeVec
	ConnectsTotal      *prometheus.CounterVec
	ReconnectsTotal    *prometheus.CounterVec
	ConnectionFailures *prometheus.CounterVec

	// Call metrics
	PendingCalls *prometheus.GaugeVec
	CallsTotal   *prometheus.CounterVec
	CallDuration *prometheus.HistogramVec
}

// NewMetrics initializes and registers Prometheus metrics
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(nil)
}

// NewMetricsWithRegistry initializes and registers Prometheus metrics with a custom registry
func NewMetricsWithRegistry(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	metrics := &Metrics{
		ConnectionState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "walletgate_connection_state",
			Help: "The current connection state (0 disconnected, 1 connecting, 2 open, 3 closing, 4 failed)",
		},
			[]string{"chain"},
		),
		ConnectsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "walletgate_connects_total",
			Help: "The total number of successfully opened gateway connections",
		},
			[]string{"chain"},
		),
		ReconnectsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "walletgate_reconnects_total",
			Help: "The total number of reconnect attempts scheduled after closures",
		},
			[]string{"chain"},
		),
		ConnectionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "walletgate_connection_failures_total",
			Help: "The total number of connections abandoned after exhausting the reconnect budget",
		},
			[]string{"chain"},
		),
		PendingCalls: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "walletgate_pending_calls",
			Help: "The current number of in-flight calls awaiting a response",
		},
			[]string{"chain"},
		),
		CallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "walletgate_calls_total",
			Help: "The total number of calls by method and outcome",
		},
			[]string{"chain", "method", "outcome"},
		),
		CallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "walletgate_call_duration_seconds",
			Help:    "The round-trip call latency by method",
			Buckets: prometheus.DefBuckets,
		},
			[]string{"chain", "method"},
		),
	}

	return metrics
}
