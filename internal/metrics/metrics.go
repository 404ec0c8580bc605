// Package metrics exposes Prometheus collectors for the categorization API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream call outcomes
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expense_categorizer_http_requests_total",
			Help: "Total number of HTTP requests received.",
		},
		[]string{"handler", "method", "code"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "expense_categorizer_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expense_categorizer_upstream_requests_total",
			Help: "Total number of completion API calls by outcome.",
		},
		[]string{"outcome"},
	)
	upstreamDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "expense_categorizer_upstream_duration_seconds",
			Help:    "Duration of completion API calls.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
	)
	expensesExtracted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "expense_categorizer_expenses_extracted_total",
			Help: "Total number of expenses returned to clients.",
		},
	)
	unknownCategories = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "expense_categorizer_unknown_categories_total",
			Help: "Total number of distinct out-of-taxonomy categories seen in model replies.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		upstreamRequestsTotal,
		upstreamDuration,
		expensesExtracted,
		unknownCategories,
	)
}

// ObserveHTTPRequest records one served HTTP request
func ObserveHTTPRequest(handler, method string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(handler, method, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(handler, method).Observe(duration.Seconds())
}

// ObserveUpstream records one completion API call
func ObserveUpstream(outcome string, duration time.Duration) {
	upstreamRequestsTotal.WithLabelValues(outcome).Inc()
	upstreamDuration.Observe(duration.Seconds())
}

// AddExpenses counts expenses returned in a successful response
func AddExpenses(n int) {
	expensesExtracted.Add(float64(n))
}

// AddUnknownCategories counts categories the model invented
func AddUnknownCategories(n int) {
	unknownCategories.Add(float64(n))
}

// Handler serves the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.Handler()
}
