package notes

import (
	"sync"

	"NProject/logger"
)

// Hub is the broadcast engine: room token -> subscribed connections.
// Delivery is at-most-once per currently subscribed connection, with no
// acknowledgement, retry, or persistence; a connection subscribing after an
// emission never sees it.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Conn // room -> connID -> conn
	fanout *Fanout
}

func NewHub(fanout *Fanout) *Hub {
	return &Hub{
		rooms:  make(map[string]map[string]Conn),
		fanout: fanout,
	}
}

func (h *Hub) Subscribe(room string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.rooms[room]
	if set == nil {
		set = make(map[string]Conn)
		h.rooms[room] = set
	}
	set[c.ID()] = c
}

func (h *Hub) Unsubscribe(room, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.rooms[room]
	if set == nil {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(h.rooms, room)
	}
}

// Broadcast snapshots the current subscriber set and hands it to the
// fanout pool. Connections joining after this point are not included.
func (h *Hub) Broadcast(room string, payload []byte) {
	h.mu.RLock()
	set := h.rooms[room]
	conns := make([]Conn, 0, len(set))
	for _, c := range set {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		logger.Debug("broadcast to empty room dropped")
		return
	}
	h.fanout.Broadcast(room, conns, payload)
}

// Subscribers reports the current subscriber count for a room.
func (h *Hub) Subscribers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Stats reports room and connection totals for the stats endpoint.
func (h *Hub) Stats() (rooms, conns int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rooms = len(h.rooms)
	for _, set := range h.rooms {
		conns += len(set)
	}
	return rooms, conns
}
