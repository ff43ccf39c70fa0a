package operation

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for HeyReach traffic.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	pages           *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
	items           *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg creates an
// unregistered set, which is what tests and library callers that do not
// export metrics want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heyreach_requests_total",
				Help: "HeyReach API requests by endpoint, method and status",
			},
			[]string{"endpoint", "method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "heyreach_request_duration_seconds",
				Help:    "Duration of HeyReach API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "method"},
		),
		pages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heyreach_pages_fetched_total",
				Help: "Pages fetched by the pagination driver",
			},
			[]string{"endpoint"},
		),
		reconciliations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heyreach_reconciliations_total",
				Help: "Pause/resume verifications after a claimed failure, by outcome",
			},
			[]string{"operation", "outcome"},
		),
		items: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heyreach_items_total",
				Help: "Host items processed by route and outcome",
			},
			[]string{"resource", "operation", "outcome"},
		),
	}
}

// RecordRequest records one upstream call. status is 0 when no response was
// received.
func (m *Metrics) RecordRequest(endpoint, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, method, statusLabel(status)).Inc()
	m.requestDuration.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// RecordPage records one page fetched by the pagination driver.
func (m *Metrics) RecordPage(endpoint string) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(endpoint).Inc()
}

// RecordReconciliation records a claim-then-verify outcome.
func (m *Metrics) RecordReconciliation(operation, outcome string) {
	if m == nil {
		return
	}
	m.reconciliations.WithLabelValues(operation, outcome).Inc()
}

// RecordItem records one host item. err decides the outcome label.
func (m *Metrics) RecordItem(resource, operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(TypeOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	m.items.WithLabelValues(resource, operation, outcome).Inc()
}

func statusLabel(status int) string {
	if status == 0 {
		return "none"
	}
	return strconv.Itoa(status)
}
