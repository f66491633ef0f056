package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the comparison instrumentation. A nil *Metrics is valid and
// records nothing, so the CLI and tests can skip it.
type Metrics struct {
	providerRequests   *prometheus.CounterVec
	providerDuration   *prometheus.HistogramVec
	comparisons        prometheus.Counter
	comparisonDuration prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onramp",
			Name:      "provider_requests_total",
			Help:      "Number of provider quote requests by status",
		}, []string{"provider", "status"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "onramp",
			Name:      "provider_request_duration_seconds",
			Help:      "Time spent waiting for a provider quote",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 4, 8},
		}, []string{"provider"}),
		comparisons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "onramp",
			Name:      "comparisons_total",
			Help:      "Number of completed price comparisons",
		}),
		comparisonDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "onramp",
			Name:      "comparison_duration_seconds",
			Help:      "Wall-clock time of a full provider fan-out",
			Buckets:   []float64{.1, .25, .5, 1, 2, 4, 8, 16},
		}),
	}
	reg.MustRegister(m.providerRequests, m.providerDuration, m.comparisons, m.comparisonDuration)
	return m
}

func (m *Metrics) ObserveQuote(provider string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.providerRequests.WithLabelValues(provider, status).Inc()
	m.providerDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *Metrics) ObserveComparison(d time.Duration) {
	if m == nil {
		return
	}
	m.comparisons.Inc()
	m.comparisonDuration.Observe(d.Seconds())
}
