package httpform

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded on formkit_submissions_total.
const (
	OutcomeRendered    = "rendered"
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
	OutcomeUnsupported = "unsupported"
	OutcomeRejected    = "rejected"
)

type metrics struct {
	submissions *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
}

// newMetrics registers the counters on reg. Handlers sharing a registry share
// the collectors.
func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		submissions: registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formkit",
			Name:      "submissions_total",
			Help:      "Form requests by form and outcome",
		}, []string{"form", "outcome"})),
		fieldErrors: registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formkit",
			Name:      "field_errors_total",
			Help:      "Field validation failures by form and field",
		}, []string{"form", "field"})),
	}
}

func registerCounter(reg prometheus.Registerer, counter *prometheus.CounterVec) *prometheus.CounterVec {
	if reg == nil {
		return counter
	}
	if err := reg.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return counter
}

func (m *metrics) observe(formName, outcome string, failedFields []string) {
	m.submissions.WithLabelValues(formName, outcome).Inc()
	for _, id := range failedFields {
		m.fieldErrors.WithLabelValues(formName, id).Inc()
	}
}
