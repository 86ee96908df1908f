package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	r.Observe(context.Background(), "lines.create", true, 20*time.Millisecond)
	r.Observe(context.Background(), "lines.create", false, 5*time.Millisecond)
	r.Observe(context.Background(), "lines.create", true, time.Millisecond)
	r.Observe(context.Background(), "", true, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.results.WithLabelValues("lines.create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.results.WithLabelValues("lines.create", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.durations))
}

func TestPrometheusRecorder_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)
	_, err = NewPrometheusRecorder(reg)
	assert.Error(t, err)
}

func TestPrometheusRecorder_Unregistered(t *testing.T) {
	r, err := NewPrometheusRecorder(nil)
	require.NoError(t, err)
	r.Observe(context.Background(), "session.login", true, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.results.WithLabelValues("session.login", "success")))
}
