// Package metrics exposes Prometheus instrumentation for descriptor builds.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/routing"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

const namespace = "formbuilder"

// Outcome labels recorded on formbuilder_builds_total.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeRouting       = "routing"
	OutcomeAccessDenied  = "access_denied"
	OutcomeConsumed      = "consumed"
	OutcomeUnknownFailed = "error"
)

// Collector implements builder.Observer on top of Prometheus metrics.
type Collector struct {
	builds   *prometheus.CounterVec
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ builder.Observer = (*Collector)(nil)

// NewCollector creates the metric vectors and registers them on reg. A nil
// registerer leaves them unregistered, which is useful in tests.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Form descriptor builds by method and outcome.",
		}, []string{"method", "outcome"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Actions emitted in successfully built descriptors.",
		}, []string{"action"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Time spent resolving and translating a descriptor.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"outcome"}),
	}

	if reg == nil {
		return c, nil
	}
	for _, collector := range []prometheus.Collector{c.builds, c.actions, c.duration} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveBuild records one build result.
func (c *Collector) ObserveBuild(result builder.Result) {
	outcome := Outcome(result.Err)
	method := string(result.Method)
	if method == "" {
		method = "unknown"
	}

	c.builds.WithLabelValues(method, outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(result.Duration.Seconds())
	if result.Err != nil {
		return
	}
	for _, action := range result.Actions {
		c.actions.WithLabelValues(string(action)).Inc()
	}
}

// Outcome maps a build error onto a bounded label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, form.ErrBuilderConsumed):
		return OutcomeConsumed
	case errors.Is(err, form.ErrRouteAccessDenied):
		return OutcomeAccessDenied
	case errors.Is(err, routing.ErrRouteNotFound), errors.Is(err, routing.ErrRouteParams):
		return OutcomeRouting
	case errors.Is(err, form.ErrInvalidAction),
		errors.Is(err, form.ErrInvalidMethod),
		errors.Is(err, form.ErrMissingMethod),
		errors.Is(err, form.ErrMissingEntity),
		errors.Is(err, form.ErrMissingPrefix),
		errors.Is(err, form.ErrUnknownField),
		errors.Is(err, schema.ErrMissingAttribute),
		errors.Is(err, schema.ErrUnknownAttribute),
		errors.Is(err, schema.ErrUnknownType),
		errors.Is(err, schema.ErrInvalidAttributeValue):
		return OutcomeInvalidInput
	default:
		return OutcomeUnknownFailed
	}
}
