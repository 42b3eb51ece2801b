package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	logStatements *prometheus.CounterVec //nolint:gochecknoglobals
	registerOnce  sync.Once              //nolint:gochecknoglobals
)

// PrometheusHook counts log statements per level on /metrics.
type PrometheusHook struct {
	statements *prometheus.CounterVec
}

// Run implements zerolog.Hook.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if h.statements == nil || level == zerolog.NoLevel {
		return
	}

	h.statements.WithLabelValues(level.String()).Inc()
}

// NewPrometheusHook returns a hook sharing the process wide counter.
// Registration happens once, so the service label is the one of the first caller.
func NewPrometheusHook(service string) PrometheusHook {
	registerOnce.Do(func() {
		logStatements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   "taskflow",
				Subsystem:   "log",
				Name:        "statements_total",
				Help:        "Log statements written, by level.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"level"},
		)
	})

	return PrometheusHook{statements: logStatements}
}
