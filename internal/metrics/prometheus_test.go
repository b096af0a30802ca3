package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupPrometheus(t *testing.T) {
	reg := SetupPrometheus()
	m := NewManager("rockyfit", "api", reg)

	m.CounterReadinessZones.WithLabelValues("green").Inc()
	m.CounterProgramGenerations.WithLabelValues("fallback").Add(2)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
	assert.True(t, names["rockyfit_api_readiness_zone"])
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterProgramGenerations.WithLabelValues("fallback")))
}
