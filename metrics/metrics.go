package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "article_analyzer"

const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Metrics struct {
	Submissions     *prometheus.CounterVec
	Forwards        *prometheus.CounterVec
	ForwardDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submissions received on /submit, by validation result.",
		}, []string{"result"}),
		Forwards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forwards_total",
			Help:      "Webhook forward attempts, by outcome.",
		}, []string{"outcome"}),
		ForwardDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forward_duration_seconds",
			Help:      "Duration of webhook forward attempts.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
	}

	reg.MustRegister(m.Submissions, m.Forwards, m.ForwardDuration)

	// Both outcomes are exported from the start so rate() works before the first failure.
	for _, r := range []string{ResultAccepted, ResultRejected} {
		m.Submissions.WithLabelValues(r)
	}
	for _, o := range []string{OutcomeSuccess, OutcomeFailure} {
		m.Forwards.WithLabelValues(o)
	}

	return m
}

func (m *Metrics) SubmissionAccepted() {
	m.Submissions.WithLabelValues(ResultAccepted).Inc()
}

func (m *Metrics) SubmissionRejected() {
	m.Submissions.WithLabelValues(ResultRejected).Inc()
}

func (m *Metrics) ObserveForward(started time.Time, err error) {
	m.ForwardDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		m.Forwards.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	m.Forwards.WithLabelValues(OutcomeSuccess).Inc()
}
