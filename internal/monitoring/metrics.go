package monitoring

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_cycles_api_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"source"},
	)

	cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_cycles_cache_hits_total",
			Help: "Total number of requests served from the file cache",
		},
		[]string{"source"},
	)

	tokensCollected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "token_cycles_tokens_collected",
			Help: "Number of tokens in the last collection run",
		},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_cycles_errors_total",
			Help: "Total number of collection errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(tokensCollected)
	prometheus.MustRegister(errorsTotal)
}

// RecordAPIRequest counts one upstream request to the named source.
func RecordAPIRequest(source string) {
	apiRequestsTotal.WithLabelValues(source).Inc()
}

// RecordCacheHit counts one request answered from the file cache.
func RecordCacheHit(source string) {
	cacheHitsTotal.WithLabelValues(source).Inc()
}

// SetTokensCollected records the size of the collected token set.
func SetTokensCollected(n int) {
	tokensCollected.Set(float64(n))
}

// RecordError counts one collection error by type.
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}

// Serve exposes /metrics on the given port in a background goroutine.
func Serve(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
	}()
}
