package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestMustRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { MustRegister(reg) })

	HealthScore.WithLabelValues("org-1").Set(85)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "smsadmin_health_score" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if m.GetLabel()[0].GetValue() == "org-1" {
				require.Equal(t, float64(85), m.GetGauge().GetValue())
				found = true
			}
		}
	}
	require.True(t, found)
}
