// Package metrics holds the domain collectors of the portfolio pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "portfolio"

type Metrics struct {
	pages           *prometheus.CounterVec
	composeDuration prometheus.Histogram
	staged          prometheus.Counter
	swept           prometheus.Counter
	assistant       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		pages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pages_total",
				Help:      "Selections processed during composition by result (rendered, skipped).",
			},
			[]string{"result"},
		),
		composeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compose_duration_seconds",
				Help:      "Duration of document compositions.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		staged: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "staged_files_total",
				Help:      "Uploaded files accepted into the staging area.",
			},
		),
		swept: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "swept_files_total",
				Help:      "Stale staged files removed by the sweeper.",
			},
		),
		assistant: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assistant_requests_total",
				Help:      "Annotation suggestions by result (ok, unavailable, invalid, upstream_error).",
			},
			[]string{"result"},
		),
	}

	for _, c := range []prometheus.Collector{m.pages, m.composeDuration, m.staged, m.swept, m.assistant} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) PageRendered() {
	if m == nil {
		return
	}
	m.pages.WithLabelValues("rendered").Inc()
}

func (m *Metrics) PageSkipped() {
	if m == nil {
		return
	}
	m.pages.WithLabelValues("skipped").Inc()
}

func (m *Metrics) ObserveCompose(d time.Duration) {
	if m == nil {
		return
	}
	m.composeDuration.Observe(d.Seconds())
}

func (m *Metrics) FilesStaged(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.staged.Add(float64(n))
}

func (m *Metrics) FilesSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.swept.Add(float64(n))
}

func (m *Metrics) AssistantRequest(result string) {
	if m == nil {
		return
	}
	m.assistant.WithLabelValues(result).Inc()
}
