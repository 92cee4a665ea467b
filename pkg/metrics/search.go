package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Shopping-list term outcomes.
const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
	OutcomeFailed    = "failed"
)

// SearchMetrics records search latency, result sizes and list resolution outcomes.
// A nil *SearchMetrics is a valid no-op recorder.
type SearchMetrics struct {
	duration  *prometheus.HistogramVec
	results   prometheus.Histogram
	listTerms *prometheus.CounterVec
}

// NewSearchMetrics registers the search metrics on the provided registerer.
func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	if reg == nil {
		return &SearchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_query_duration_seconds",
		Help:    "Duration of catalog search operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	results := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "search_results_returned",
		Help:    "Number of results returned per search query.",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})
	listTerms := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopping_list_terms_total",
		Help: "Shopping-list terms by resolution outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, results, listTerms)
	return &SearchMetrics{
		duration:  duration,
		results:   results,
		listTerms: listTerms,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *SearchMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// ObserveResults records how many results a query returned.
func (m *SearchMetrics) ObserveResults(count int) {
	if m == nil || m.results == nil {
		return
	}
	m.results.Observe(float64(count))
}

// IncListTerm counts one shopping-list term with the given outcome.
func (m *SearchMetrics) IncListTerm(outcome string) {
	if m == nil || m.listTerms == nil {
		return
	}
	m.listTerms.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
