package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	notificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifhub_notifications_dispatched_total",
			Help: "Per-channel dispatch attempts by outcome",
		},
		[]string{"channel", "outcome"},
	)

	sendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifhub_send_requests_total",
			Help: "Send-notification requests by result",
		},
		[]string{"result"},
	)

	dispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notifhub_dispatch_duration_seconds",
			Help:    "Per-channel provider latency distribution",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"channel"},
	)

	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notifhub_websocket_connections",
			Help: "Currently connected websocket clients",
		},
	)

	eventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifhub_events_consumed_total",
			Help: "Domain events consumed by the notification worker, by outcome",
		},
		[]string{"event_type", "outcome"},
	)
)

func RecordDispatch(channel string, success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	notificationsDispatched.WithLabelValues(channel, outcome).Inc()
	dispatchDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

func RecordSendRequest(result string) {
	sendRequests.WithLabelValues(result).Inc()
}

func WebsocketConnected() {
	websocketConnections.Inc()
}

func WebsocketDisconnected() {
	websocketConnections.Dec()
}

func RecordEventConsumed(eventType string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	eventsConsumed.WithLabelValues(eventType, outcome).Inc()
}

// Handler exposes the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
