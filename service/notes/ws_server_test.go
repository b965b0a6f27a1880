package notes

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubPresence struct{}

func (stubPresence) Online(context.Context, string) error  { return nil }
func (stubPresence) Offline(context.Context, string) error { return nil }

func TestTeardownKeepsSiblingTabSubscriptions(t *testing.T) {
	s := &Server{
		connMgr:  NewConnManager(),
		tracker:  NewRoomTracker(),
		hub:      newTestHub(),
		presence: stubPresence{},
	}

	tab1 := newMockConn("c1", "u1")
	tab2 := newMockConn("c2", "u1")
	s.connMgr.Add(tab1)
	s.connMgr.Add(tab2)
	s.tracker.Join("u1", "r1")
	s.hub.Subscribe("r1", tab1)
	s.hub.Subscribe("r1", tab2)

	s.teardown(tab1)

	assert.True(t, tab1.isClosed())
	assert.Equal(t, []string{"r1"}, s.tracker.Rooms("u1"), "room survives while another tab is live")
	assert.Equal(t, 1, s.hub.Subscribers("r1"), "only the closed tab unsubscribes")

	s.teardown(tab2)

	assert.Empty(t, s.tracker.Rooms("u1"))
	assert.Zero(t, s.hub.Subscribers("r1"))
	assert.Zero(t, s.connMgr.Count())
}

func TestTokenFromHeaderPriority(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/notes", nil)
	assert.Empty(t, tokenFromHeader(r))

	r.Header.Set("Authorization", "Bearer from-bearer")
	assert.Equal(t, "from-bearer", tokenFromHeader(r))

	r.Header.Set("Access-Token", "from-access")
	assert.Equal(t, "from-access", tokenFromHeader(r), "Access-Token wins over Authorization")
}
