package pipeline

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joseph-ayodele/submittal-review/internal/common"
)

// Metrics holds the review pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	extractions      *prometheus.CounterVec
	providerCalls    *prometheus.CounterVec
	providerDuration prometheus.Histogram
	parseFailures    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "review_extractions_total",
				Help: "Documents extracted, by extraction method.",
			},
			[]string{"method"},
		),
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "review_provider_calls_total",
				Help: "Completion calls to the LLM provider, by outcome.",
			},
			[]string{"outcome"},
		),
		providerDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "review_provider_call_duration_seconds",
				Help:    "Latency of completion calls to the LLM provider.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
			},
		),
		parseFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "review_parse_failures_total",
				Help: "Model responses that could not be normalized, by protocol.",
			},
			[]string{"mode"},
		),
	}

	for _, c := range []prometheus.Collector{m.extractions, m.providerCalls, m.providerDuration, m.parseFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeExtraction(method string) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(method).Inc()
}

func (m *Metrics) observeProviderCall(err error, d time.Duration) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(providerOutcome(err)).Inc()
	m.providerDuration.Observe(d.Seconds())
}

func (m *Metrics) observeParseFailure(mode string) {
	if m == nil {
		return
	}
	m.parseFailures.WithLabelValues(mode).Inc()
}

// providerOutcome is "ok", the ProviderError kind, or "error".
func providerOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	var perr *common.ProviderError
	if errors.As(err, &perr) && perr.Kind != "" {
		return string(perr.Kind)
	}
	return "error"
}
