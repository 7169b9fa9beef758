package observability

import (
	"github.com/aretw0/graft/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the adapter collectors.
type Metrics struct {
	Mutations      *prometheus.CounterVec
	Commits        prometheus.Counter
	CommitDuration prometheus.Histogram
	CommitSize     prometheus.Histogram
	Mounts         *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "graft",
				Subsystem: "host",
				Name:      "mutations_total",
				Help:      "Host mutations applied inside commit brackets, by operation.",
			},
			[]string{"op"},
		),
		Commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graft",
			Subsystem: "host",
			Name:      "commits_total",
			Help:      "Completed commit brackets.",
		}),
		CommitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "graft",
			Subsystem: "host",
			Name:      "commit_duration_seconds",
			Help:      "Time between prepareForCommit and resetAfterCommit.",
			Buckets:   prometheus.DefBuckets,
		}),
		CommitSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "graft",
			Subsystem: "host",
			Name:      "commit_mutations",
			Help:      "Mutations applied per commit.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		Mounts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "graft",
				Subsystem: "host",
				Name:      "mounts_total",
				Help:      "Post-mount effects run, by node type.",
			},
			[]string{"type"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Mutations, m.Commits, m.CommitDuration, m.CommitSize, m.Mounts)
	}
	return m
}

// Hooks returns CommitHooks that record into m.
func (m *Metrics) Hooks() domain.CommitHooks {
	return domain.CommitHooks{
		OnMutation: func(e *domain.MutationEvent) {
			if !e.InCommit {
				return
			}
			m.Mutations.WithLabelValues(e.Op).Inc()
		},
		OnCommit: func(e *domain.CommitEvent) {
			m.Commits.Inc()
			m.CommitDuration.Observe(e.Duration.Seconds())
			m.CommitSize.Observe(float64(e.Mutations))
		},
		OnMount: func(e *domain.MountEvent) {
			m.Mounts.WithLabelValues(e.Type).Inc()
		},
	}
}
