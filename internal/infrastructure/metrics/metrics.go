package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "duet",
		Name:      "rooms_active",
		Help:      "Number of rooms currently present in the registry.",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "duet",
		Name:      "sessions_active",
		Help:      "Number of websocket sessions currently joined to a room.",
	})

	MessagesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "duet",
		Name:      "messages_relayed_total",
		Help:      "Messages recorded to history and broadcast to room peers.",
	})

	JoinsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "duet",
		Name:      "joins_rejected_total",
		Help:      "Join attempts rejected because the room was already full.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
