package sat

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an additive-only set of Prometheus instruments describing
// solver progress. It is never read by the solver itself — only written —
// so wiring it in can never change search behavior.
type Metrics struct {
	Conflicts   prometheus.Counter
	Decisions   prometheus.Counter
	Propagations prometheus.Counter
	Restarts    prometheus.Counter
	Simplifies  prometheus.Counter
	Vivified    prometheus.Counter
	LearntSize  prometheus.Histogram
	TrailLength prometheus.Gauge
}

// NewMetrics registers a fresh set of instruments under the given
// registerer. Pass prometheus.NewRegistry() (or nil for the default
// registry) from the CLI entry point.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cdsat", Name: "conflicts_total", Help: "Total conflicts encountered.",
		}),
		Decisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cdsat", Name: "decisions_total", Help: "Total decisions taken.",
		}),
		Propagations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cdsat", Name: "propagations_total", Help: "Total literals propagated.",
		}),
		Restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cdsat", Name: "restarts_total", Help: "Total restarts fired.",
		}),
		Simplifies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cdsat", Name: "simplify_runs_total", Help: "Total inprocessing simplification passes.",
		}),
		Vivified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cdsat", Name: "vivified_total", Help: "Total clauses shortened by vivification.",
		}),
		LearntSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cdsat", Name: "learnt_clause_size", Help: "Size distribution of learnt clauses.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		TrailLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cdsat", Name: "trail_length", Help: "Current trail length.",
		}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		m.Conflicts, m.Decisions, m.Propagations, m.Restarts,
		m.Simplifies, m.Vivified, m.LearntSize, m.TrailLength,
	} {
		reg.MustRegister(c)
	}
	return m
}

func (s *Solver) observeConflict(learntSize int) {
	if s.metrics == nil {
		return
	}
	s.metrics.Conflicts.Inc()
	s.metrics.LearntSize.Observe(float64(learntSize))
	s.metrics.TrailLength.Set(float64(len(s.trail)))
}

func (s *Solver) observeDecision() {
	if s.metrics == nil {
		return
	}
	s.metrics.Decisions.Inc()
}

func (s *Solver) observeRestart() {
	if s.metrics == nil {
		return
	}
	s.metrics.Restarts.Inc()
}

func (s *Solver) observeSimplify() {
	if s.metrics == nil {
		return
	}
	s.metrics.Simplifies.Inc()
}

// SetMetrics attaches an instrument bundle; pass nil to disable.
func (s *Solver) SetMetrics(m *Metrics) {
	s.metrics = m
}
