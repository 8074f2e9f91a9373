package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsadmin_mutations_total",
			Help: "Admin mutations by entity type and action",
		},
		[]string{"entity", "action"}, // ORG|TEMPLATE|OVERRIDE|... , CREATE|UPDATE|...
	)

	HealthScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smsadmin_health_score",
			Help: "Last computed SMS health score per organization",
		},
		[]string{"org_id"},
	)

	ExportRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsadmin_export_rows_total",
			Help: "Rows written to CSV exports by dataset",
		},
		[]string{"dataset"}, // logs|audit|orgs|suppressions
	)

	ActivityEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsadmin_activity_events_total",
			Help: "Activity events by outcome",
		},
		[]string{"result"}, // published|failed|dropped|sunk
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		MutationsTotal,
		HealthScore,
		ExportRowsTotal,
		ActivityEventsTotal,
	)
}
