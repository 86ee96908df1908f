package dispatch

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder observes the outcome of every command.
type MetricsRecorder interface {
	Observe(ctx context.Context, command string, success bool, duration time.Duration)
}

// NopRecorder discards observations.
type NopRecorder struct{}

// Observe implements MetricsRecorder.
func (NopRecorder) Observe(context.Context, string, bool, time.Duration) {}

// PrometheusRecorder exports command counters and latencies.
type PrometheusRecorder struct {
	results   *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewPrometheusRecorder creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subway",
			Subsystem: "client",
			Name:      "commands_total",
			Help:      "Remote commands by command and result.",
		}, []string{"command", "result"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "subway",
			Subsystem: "client",
			Name:      "command_duration_seconds",
			Help:      "Time from dispatch to outcome of remote commands.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{r.results, r.durations} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// Observe implements MetricsRecorder.
func (r *PrometheusRecorder) Observe(_ context.Context, command string, success bool, duration time.Duration) {
	if command == "" {
		return
	}
	result := "error"
	if success {
		result = "success"
	}
	r.results.WithLabelValues(command, result).Inc()
	r.durations.WithLabelValues(command).Observe(duration.Seconds())
}
