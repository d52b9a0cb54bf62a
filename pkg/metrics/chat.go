package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ChatMetrics records websocket hub activity.
type ChatMetrics struct {
	connections prometheus.Gauge
	rooms       prometheus.Gauge
	messages    *prometheus.CounterVec
	drops       prometheus.Counter
}

// NewChatMetrics registers the chat hub metrics on the provided registerer.
func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	if reg == nil {
		return &ChatMetrics{}
	}
	connections := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connections",
		Help: "Open websocket connections across all trip rooms.",
	})
	rooms := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_rooms",
		Help: "Trip rooms with at least one open connection.",
	})
	messages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Messages broadcast to trip rooms.",
	}, []string{"kind"})
	drops := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_broadcast_drops_total",
		Help: "Connections dropped because their send buffer was full.",
	})
	reg.MustRegister(connections, rooms, messages, drops)
	return &ChatMetrics{
		connections: connections,
		rooms:       rooms,
		messages:    messages,
		drops:       drops,
	}
}

// ConnectionOpened increments the open connection gauge.
func (c *ChatMetrics) ConnectionOpened() {
	if c == nil || c.connections == nil {
		return
	}
	c.connections.Inc()
}

// ConnectionClosed decrements the open connection gauge.
func (c *ChatMetrics) ConnectionClosed() {
	if c == nil || c.connections == nil {
		return
	}
	c.connections.Dec()
}

// SetRoomCount records the current number of active rooms.
func (c *ChatMetrics) SetRoomCount(count int) {
	if c == nil || c.rooms == nil {
		return
	}
	c.rooms.Set(float64(count))
}

// IncMessage counts one broadcast message of the given kind.
func (c *ChatMetrics) IncMessage(kind string) {
	if c == nil || c.messages == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	c.messages.WithLabelValues(kind).Inc()
}

// IncBroadcastDrop counts a connection evicted by a full send buffer.
func (c *ChatMetrics) IncBroadcastDrop() {
	if c == nil || c.drops == nil {
		return
	}
	c.drops.Inc()
}
