package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fasting_sessions_started_total",
			Help: "Total fasting sessions started",
		},
	)

	SessionsEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fasting_sessions_ended_total",
			Help: "Total fasting sessions ended, by outcome",
		},
		[]string{"outcome"},
	)

	PhaseStreamTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fasting_phase_stream_ticks_total",
			Help: "Phase states pushed over open SSE streams",
		},
	)

	PhaseStreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fasting_phase_streams_active",
			Help: "Currently open phase SSE streams",
		},
	)
)

func init() {
	prometheus.MustRegister(
		SessionsStarted,
		SessionsEnded,
		PhaseStreamTicks,
		PhaseStreamsActive,
	)
}

// Handler exposes the default registry for mounting on the API router.
func Handler() http.Handler {
	return promhttp.Handler()
}
