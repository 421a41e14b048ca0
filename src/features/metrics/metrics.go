package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsTotal counts handled bot commands and callbacks.
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yamubot",
		Name:      "commands_total",
		Help:      "Bot commands and callbacks handled, by command.",
	}, []string{"command"})

	// UpstreamRequestsTotal counts calls to the Yandex Music API.
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yamubot",
		Name:      "upstream_requests_total",
		Help:      "Yandex Music API calls, by operation and outcome.",
	}, []string{"operation", "status"})

	// StatsDuration observes per-section statistics computation time.
	StatsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "yamubot",
		Name:      "stats_duration_seconds",
		Help:      "Statistics sub-aggregation duration, by section.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"section"})
)

// ObserveUpstream records the outcome of one upstream API call.
func ObserveUpstream(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(operation, status).Inc()
}

// CountCommand records one handled bot command or callback.
func CountCommand(command string) {
	CommandsTotal.WithLabelValues(command).Inc()
}
