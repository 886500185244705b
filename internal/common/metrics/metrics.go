// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResolverTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_turns_total",
			Help: "Total number of dialog turns processed, by intent and outcome",
		},
		[]string{"intent", "outcome"},
	)

	ResolverRepromptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_reprompts_total",
			Help: "Total number of reprompts issued for missing fields",
		},
		[]string{"intent"},
	)

	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of calculation gateway requests, by intent and status",
		},
		[]string{"intent", "status"},
	)

	ResolverTurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "resolver_turn_duration_seconds",
			Help: "Duration of dialog turn processing in seconds",
		},
		[]string{"intent"},
	)
)
