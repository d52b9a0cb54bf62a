package chat

import (
	"testing"

	"github.com/google/uuid"
)

func drain(c *Conn) [][]byte {
	var payloads [][]byte
	for {
		select {
		case p, ok := <-c.out:
			if !ok {
				return payloads
			}
			payloads = append(payloads, p)
		default:
			return payloads
		}
	}
}

func TestHubBroadcastReachesWholeRoomIncludingSender(t *testing.T) {
	hub := NewHub(nil)
	tripID := uuid.New()

	alice := NewConn(uuid.New())
	bob := NewConn(uuid.New())
	hub.Join(tripID, alice)
	hub.Join(tripID, bob)

	hub.Broadcast(tripID, "text", []byte("hi"))

	for _, c := range []*Conn{alice, bob} {
		got := drain(c)
		if len(got) != 1 || string(got[0]) != "hi" {
			t.Fatalf("expected one payload per connection, got %v", got)
		}
	}
}

func TestHubBroadcastScopedToRoom(t *testing.T) {
	hub := NewHub(nil)
	rome := uuid.New()
	alps := uuid.New()

	inRome := NewConn(uuid.New())
	inAlps := NewConn(uuid.New())
	hub.Join(rome, inRome)
	hub.Join(alps, inAlps)

	hub.Broadcast(rome, "text", []byte("ciao"))

	if got := drain(inAlps); len(got) != 0 {
		t.Fatalf("other room must not receive payloads, got %v", got)
	}
	if got := drain(inRome); len(got) != 1 {
		t.Fatalf("expected payload in the broadcast room, got %v", got)
	}
}

func TestHubJoinMovesConnectionBetweenRooms(t *testing.T) {
	hub := NewHub(nil)
	rome := uuid.New()
	alps := uuid.New()
	c := NewConn(uuid.New())

	hub.Join(rome, c)
	hub.Join(alps, c)

	if hub.RoomSize(rome) != 0 {
		t.Fatal("joining a new trip must leave the previous room")
	}
	if hub.RoomSize(alps) != 1 {
		t.Fatal("connection missing from the new room")
	}
	if tripID, ok := hub.JoinedTrip(c); !ok || tripID != alps {
		t.Fatalf("unexpected joined trip: %v %v", tripID, ok)
	}
}

func TestHubLeaveIsIdempotentAndClosesStream(t *testing.T) {
	hub := NewHub(nil)
	tripID := uuid.New()
	c := NewConn(uuid.New())
	hub.Join(tripID, c)

	hub.Leave(c)
	hub.Leave(c)

	if hub.RoomSize(tripID) != 0 {
		t.Fatal("room must be empty after leave")
	}
	if _, ok := <-c.Out(); ok {
		t.Fatal("stream must be closed after leave")
	}
}

func TestHubEvictsSlowConnection(t *testing.T) {
	hub := NewHub(nil)
	tripID := uuid.New()
	slow := NewConn(uuid.New())
	hub.Join(tripID, slow)

	for i := 0; i <= sendBufferSize; i++ {
		hub.Broadcast(tripID, "text", []byte("x"))
	}

	if hub.RoomSize(tripID) != 0 {
		t.Fatal("connection with a full buffer must be evicted")
	}
	if _, ok := hub.JoinedTrip(slow); ok {
		t.Fatal("evicted connection must not remain joined")
	}
}
