package notes

import (
	"sync"
)

// ConnManager indexes live connections by connection id and by user. A user
// may hold several simultaneous connections (multiple tabs); each tracks
// its own room membership.
type ConnManager struct {
	mu     sync.RWMutex
	byConn map[string]Conn            // connID -> conn
	byUser map[string]map[string]Conn // userID -> connID -> conn
}

func NewConnManager() *ConnManager {
	return &ConnManager{
		byConn: make(map[string]Conn),
		byUser: make(map[string]map[string]Conn),
	}
}

func (m *ConnManager) Add(c Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byConn[c.ID()] = c
	if id := c.Identity(); id != nil {
		set := m.byUser[id.ID]
		if set == nil {
			set = make(map[string]Conn)
			m.byUser[id.ID] = set
		}
		set[c.ID()] = c
	}
}

// Remove drops the connection from both indexes and reports whether the
// user still holds other live connections.
func (m *ConnManager) Remove(c Conn) (userStillOnline bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.byConn, c.ID())
	id := c.Identity()
	if id == nil {
		return false
	}
	set := m.byUser[id.ID]
	if set != nil {
		delete(set, c.ID())
		if len(set) == 0 {
			delete(m.byUser, id.ID)
		}
	}
	return len(set) > 0
}

func (m *ConnManager) Get(connID string) (Conn, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.byConn[connID]
	return c, ok
}

func (m *ConnManager) ListByUser(userID string) []Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := m.byUser[userID]
	if len(set) == 0 {
		return nil
	}
	out := make([]Conn, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}

func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byConn)
}
