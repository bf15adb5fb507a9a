package rpc

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusError    = "error"
	statusRPCError = "rpc_error"
	statusSuccess  = "success"
)

var (
	CallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evm_tx_analyzer_rpc_calls_total",
		Help: "Total number of JSON-RPC calls made to analysis endpoints",
	}, []string{"endpoint", "method", "status"})

	CallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evm_tx_analyzer_rpc_call_duration_seconds",
		Help:    "Duration of JSON-RPC calls",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"endpoint", "method", "status"})
)

func observeCall(endpoint, method string, err error, latency time.Duration) {
	status := statusSuccess

	var rpcErr *RPCError
	switch {
	case errors.As(err, &rpcErr):
		status = statusRPCError
	case err != nil:
		status = statusError
	}

	CallsTotal.WithLabelValues(endpoint, method, status).Inc()
	CallDuration.WithLabelValues(endpoint, method, status).Observe(latency.Seconds())
}
