package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("clinic")
	require.NoError(t, m.Register(reg))

	m.BookingsCreated.Inc()
	m.BookingsRejected.WithLabelValues("invalid_day").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsRejected.WithLabelValues("invalid_day")))

	assert.Error(t, m.Register(reg), "double registration must fail")
}
