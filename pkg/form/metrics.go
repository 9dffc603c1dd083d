package form

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes recorded by Metrics.
const (
	OutcomeSaved   = "saved"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
	OutcomeStale   = "stale"
	OutcomeBusy    = "busy"
)

// Metrics counts dispatched actions and submission outcomes. One Metrics is
// shared by every form a process mounts.
type Metrics struct {
	actions      *prometheus.CounterVec
	submissions  *prometheus.CounterVec
	saveDuration prometheus.Histogram
}

// NewMetrics builds the collectors and registers them with reg. A nil reg
// skips registration.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logbook_form_actions_total",
				Help: "Actions applied to mounted forms, by action type.",
			},
			[]string{"type"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logbook_form_submissions_total",
				Help: "Submission attempts, by outcome.",
			},
			[]string{"outcome"},
		),
		saveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "logbook_form_save_seconds",
				Help:    "Time spent in the saver, in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.actions, m.submissions, m.saveDuration} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) action(kind string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(kind).Inc()
}

func (m *Metrics) submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) save(d time.Duration) {
	if m == nil {
		return
	}
	m.saveDuration.Observe(d.Seconds())
}
