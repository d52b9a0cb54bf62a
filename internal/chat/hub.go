package chat

import (
	"sync"

	"github.com/globetrotter-app/globetrotter-backend/pkg/metrics"
	"github.com/google/uuid"
)

const sendBufferSize = 32

// Conn is one live client connection from the hub's point of view. The
// transport layer drains Out and writes the payloads to the socket; the hub
// never touches the socket directly.
type Conn struct {
	UserID uuid.UUID
	out    chan []byte
	closed bool
}

// NewConn builds a connection handle for the given user.
func NewConn(userID uuid.UUID) *Conn {
	return &Conn{
		UserID: userID,
		out:    make(chan []byte, sendBufferSize),
	}
}

// Out exposes the broadcast stream for the transport's write pump. The
// channel is closed when the hub evicts or unregisters the connection.
func (c *Conn) Out() <-chan []byte {
	return c.out
}

// Hub is the process-local room registry: a concurrency-safe mapping from
// trip to the set of live connections joined to it. State here is
// deliberately non-durable; after a restart clients reconnect and recover
// history through the message log read path. A connection is joined to at
// most one trip, joining another trip implicitly leaves the previous one.
type Hub struct {
	mu      sync.Mutex
	rooms   map[uuid.UUID]map[*Conn]struct{}
	joined  map[*Conn]uuid.UUID
	metrics *metrics.ChatMetrics
}

// NewHub constructs an empty room registry.
func NewHub(chatMetrics *metrics.ChatMetrics) *Hub {
	return &Hub{
		rooms:   make(map[uuid.UUID]map[*Conn]struct{}),
		joined:  make(map[*Conn]uuid.UUID),
		metrics: chatMetrics,
	}
}

// Join registers the connection against the trip's room, leaving any room it
// was in before.
func (h *Hub) Join(tripID uuid.UUID, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.closed {
		return
	}
	if prev, ok := h.joined[c]; ok {
		if prev == tripID {
			return
		}
		h.removeLocked(prev, c)
	} else {
		h.metrics.ConnectionOpened()
	}

	room, ok := h.rooms[tripID]
	if !ok {
		room = make(map[*Conn]struct{})
		h.rooms[tripID] = room
	}
	room[c] = struct{}{}
	h.joined[c] = tripID
	h.metrics.SetRoomCount(len(h.rooms))
}

// Leave removes the connection from its room and closes its stream. Safe to
// call more than once.
func (h *Hub) Leave(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if tripID, ok := h.joined[c]; ok {
		h.removeLocked(tripID, c)
		h.metrics.ConnectionClosed()
		h.metrics.SetRoomCount(len(h.rooms))
	}
	if !c.closed {
		c.closed = true
		close(c.out)
	}
}

// JoinedTrip returns the trip the connection is currently joined to.
func (h *Hub) JoinedTrip(c *Conn) (uuid.UUID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tripID, ok := h.joined[c]
	return tripID, ok
}

// RoomSize reports the number of connections joined to the trip.
func (h *Hub) RoomSize(tripID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[tripID])
}

// Broadcast fans the payload out to every connection joined to the trip,
// including the sender. A connection whose buffer is full cannot keep up and
// is evicted rather than allowed to stall the room.
func (h *Hub) Broadcast(tripID uuid.UUID, kind string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[tripID]
	if !ok {
		return
	}
	h.metrics.IncMessage(kind)

	for c := range room {
		select {
		case c.out <- payload:
		default:
			h.removeLocked(tripID, c)
			h.metrics.ConnectionClosed()
			h.metrics.IncBroadcastDrop()
			c.closed = true
			close(c.out)
		}
	}
	h.metrics.SetRoomCount(len(h.rooms))
}

// Close evicts every connection and empties the registry. Used on shutdown
// so write pumps draining Out observe their channels closing and exit.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.joined {
		if !c.closed {
			c.closed = true
			close(c.out)
		}
		h.metrics.ConnectionClosed()
	}
	h.rooms = make(map[uuid.UUID]map[*Conn]struct{})
	h.joined = make(map[*Conn]uuid.UUID)
	h.metrics.SetRoomCount(0)
}

func (h *Hub) removeLocked(tripID uuid.UUID, c *Conn) {
	if room, ok := h.rooms[tripID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, tripID)
		}
	}
	delete(h.joined, c)
}
