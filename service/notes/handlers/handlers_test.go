package handlers

import (
	"context"
	"sync"
	"testing"
	"time"

	notemodel "NProject/module/note/model"
	usermodel "NProject/module/user/model"
	"NProject/service/notes"
	"NProject/tools/errs"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ---- fakes ----

type mockConn struct {
	id       string
	identity *usermodel.Identity

	mu     sync.Mutex
	sent   [][]byte
	closed bool
}

func newMockConn(id string, identity *usermodel.Identity) *mockConn {
	return &mockConn{id: id, identity: identity}
}

func (m *mockConn) ID() string                    { return m.id }
func (m *mockConn) Identity() *usermodel.Identity { return m.identity }

func (m *mockConn) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("closed")
	}
	m.sent = append(m.sent, data)
	return nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConn) frames(t *testing.T) []*notes.Frame {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*notes.Frame, 0, len(m.sent))
	for _, raw := range m.sent {
		f, err := notes.ParseFrame(raw)
		require.NoError(t, err)
		out = append(out, f)
	}
	return out
}

func (m *mockConn) frameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *mockConn) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// fakeStore keeps notes in memory, honoring soft-delete visibility.
type fakeStore struct {
	mu      sync.Mutex
	byRoom  map[string]*notemodel.Note
	updates int
}

func newFakeStore(ns ...*notemodel.Note) *fakeStore {
	s := &fakeStore{byRoom: make(map[string]*notemodel.Note)}
	for _, n := range ns {
		s.byRoom[n.Room] = n
	}
	return s
}

func (s *fakeStore) FindByRoom(_ context.Context, room string) (*notemodel.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byRoom[room]
	if !ok || n.DeletedAt != nil {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (s *fakeStore) Update(_ context.Context, id primitive.ObjectID, patch notemodel.UpdateNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.byRoom {
		if n.ID != id {
			continue
		}
		if patch.Title != nil {
			n.Title = *patch.Title
		}
		if patch.Content != nil {
			n.Content = *patch.Content
		}
		if patch.Members != nil {
			n.Members = *patch.Members
		}
		s.updates++
		return nil
	}
	return errors.New("note not found")
}

func (s *fakeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.byRoom {
		if n.ID == id {
			now := time.Now()
			n.DeletedAt = &now
			return nil
		}
	}
	return errors.New("note not found")
}

func (s *fakeStore) members(room string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byRoom[room].Members
}

func (s *fakeStore) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

type fakeResolver struct{}

func (fakeResolver) Resolve(context.Context, string) (*usermodel.Identity, error) {
	return nil, errs.ErrTokenInvalid
}

type fakePresence struct{}

func (fakePresence) Online(context.Context, string) error  { return nil }
func (fakePresence) Offline(context.Context, string) error { return nil }

// ---- harness ----

func newTestServer(store notes.NoteStore) *notes.Server {
	disp := notes.NewDispatcher()
	RegisterAll(disp)
	return notes.NewServer(notes.Deps{
		NodeID:   "test-node",
		Disp:     disp,
		ConnMgr:  notes.NewConnManager(),
		Tracker:  notes.NewRoomTracker(),
		Hub:      notes.NewHub(notes.NewFanout(2, 64)),
		Notes:    store,
		Resolver: fakeResolver{},
		Presence: fakePresence{},
	})
}

func dispatch(s *notes.Server, event string, data map[string]any, conn notes.Conn) error {
	return s.Disp().Dispatch(&notes.Context{S: s}, &notes.Frame{Event: event, Data: data}, conn)
}

func testNote(room, owner string, members ...string) *notemodel.Note {
	if members == nil {
		members = []string{}
	}
	return &notemodel.Note{
		ID:        primitive.NewObjectID(),
		Room:      room,
		Title:     "title",
		Content:   "content",
		OwnerID:   owner,
		Members:   members,
		CreatedAt: time.Now(),
	}
}

func identity(id, name string) *usermodel.Identity {
	return &usermodel.Identity{ID: id, FirstName: name, Email: id + "@example.com"}
}

func waitFrames(t *testing.T, c *mockConn, n int) []*notes.Frame {
	t.Helper()
	require.Eventually(t, func() bool { return c.frameCount() >= n },
		time.Second, 5*time.Millisecond)
	return c.frames(t)
}

// ---- join ----

func TestJoinNotifiesEveryoneInRoom(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua", "ub"))
	s := newTestServer(store)

	ca := newMockConn("c1", identity("ua", "Alice"))
	cb := newMockConn("c2", identity("ub", "Bob"))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, ca))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, cb))

	// Alice sees her own join plus Bob's; Bob sees his own.
	framesA := waitFrames(t, ca, 2)
	assert.Equal(t, notes.EventJoinRoom, framesA[1].Event)
	assert.Equal(t, "Bob joined the room", framesA[1].Data["message"])

	framesB := waitFrames(t, cb, 1)
	assert.Equal(t, notes.EventJoinRoom, framesB[0].Event)
}

func TestJoinGrantsMembershipToTokenHolder(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua"))
	s := newTestServer(store)

	cb := newMockConn("c1", identity("ub", "Bob"))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, cb))

	assert.Contains(t, store.members("r1"), "ub")

	// Once granted, the newcomer can edit immediately.
	title := "from bob"
	require.NoError(t, dispatch(s, notes.EventEditNote,
		map[string]any{"room": "r1", "title": title}, cb))
}

func TestJoinUnknownRoom(t *testing.T) {
	s := newTestServer(newFakeStore())

	c := newMockConn("c1", identity("ua", "Alice"))
	err := dispatch(s, notes.EventJoinRoom, map[string]any{"room": "missing"}, c)
	assert.ErrorIs(t, err, errs.ErrRoomNotFound)
	assert.Empty(t, s.Tracker().Rooms("ua"))
}

func TestJoinEvictsPreviousRoom(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua", "ub"), testNote("r2", "ua"))
	s := newTestServer(store)

	ca := newMockConn("c1", identity("ua", "Alice"))
	cb := newMockConn("c2", identity("ub", "Bob"))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, cb))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, ca))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r2"}, ca))

	assert.Equal(t, []string{"r2"}, s.Tracker().Rooms("ua"))
	assert.Equal(t, 1, s.Hub().Subscribers("r1"))

	// Bob: own join, Alice's join, Alice's eviction leave.
	framesB := waitFrames(t, cb, 3)
	assert.Equal(t, notes.EventLeaveRoom, framesB[2].Event)
	assert.Equal(t, "Alice left the room", framesB[2].Data["message"])
}

func TestJoinFromSecondTabEvictsAllUserConnections(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua", "ub"), testNote("r2", "ua"))
	s := newTestServer(store)

	cb := newMockConn("c0", identity("ub", "Bob"))
	tab1 := newMockConn("c1", identity("ua", "Alice"))
	tab2 := newMockConn("c2", identity("ua", "Alice"))
	s.ConnMgr().Add(cb)
	s.ConnMgr().Add(tab1)
	s.ConnMgr().Add(tab2)

	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, cb))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, tab1))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r2"}, tab2))

	// Occupying r2 from the second tab vacates r1 for every one of the
	// user's connections, first tab included.
	assert.Equal(t, []string{"r2"}, s.Tracker().Rooms("ua"))
	assert.Equal(t, 1, s.Hub().Subscribers("r1"), "only Bob remains in r1")

	framesB := waitFrames(t, cb, 3)
	assert.Equal(t, notes.EventLeaveRoom, framesB[2].Event)
}

// ---- leave ----

func TestLeaveNotifiesRemaining(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua", "ub"))
	s := newTestServer(store)

	ca := newMockConn("c1", identity("ua", "Alice"))
	cb := newMockConn("c2", identity("ub", "Bob"))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, ca))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, cb))
	waitFrames(t, ca, 2)
	before := cb.frameCount()

	require.NoError(t, dispatch(s, notes.EventLeaveRoom, map[string]any{"room": "r1"}, cb))

	framesA := waitFrames(t, ca, 3)
	assert.Equal(t, notes.EventLeaveRoom, framesA[2].Event)
	assert.Equal(t, before, cb.frameCount(), "the leaver gets no notice")
	assert.Equal(t, 1, s.Hub().Subscribers("r1"))
}

func TestLeaveDropsAllUserConnections(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua"))
	s := newTestServer(store)

	tab1 := newMockConn("c1", identity("ua", "Alice"))
	tab2 := newMockConn("c2", identity("ua", "Alice"))
	s.ConnMgr().Add(tab1)
	s.ConnMgr().Add(tab2)

	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, tab1))
	require.NoError(t, dispatch(s, notes.EventLeaveRoom, map[string]any{"room": "r1"}, tab2))

	assert.Empty(t, s.Tracker().Rooms("ua"))
	assert.Zero(t, s.Hub().Subscribers("r1"), "leaving from any tab vacates the room entirely")
}

func TestLeaveIsIdempotent(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua"))
	s := newTestServer(store)

	c := newMockConn("c1", identity("ua", "Alice"))
	require.NoError(t, dispatch(s, notes.EventLeaveRoom, map[string]any{"room": "r1"}, c))
	assert.Zero(t, c.frameCount())
}

// ---- edit ----

func TestEditRejectsNonMember(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua", "ub"))
	s := newTestServer(store)

	cc := newMockConn("c1", identity("uc", "Carol"))
	err := dispatch(s, notes.EventEditNote, map[string]any{"room": "r1", "title": "hijack"}, cc)

	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
	assert.Zero(t, store.updateCount())
}

func TestEditPersistsAndBroadcasts(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua", "ub"))
	s := newTestServer(store)

	ca := newMockConn("c1", identity("ua", "Alice"))
	cb := newMockConn("c2", identity("ub", "Bob"))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, ca))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, cb))
	waitFrames(t, ca, 2)

	require.NoError(t, dispatch(s, notes.EventEditNote,
		map[string]any{"room": "r1", "title": "new title"}, cb))

	assert.Equal(t, 1, store.updateCount())

	framesA := waitFrames(t, ca, 3)
	edit := framesA[2]
	assert.Equal(t, notes.EventEditNote, edit.Event)
	assert.Equal(t, "new title", edit.Data["title"])
	assert.NotContains(t, edit.Data, "content")
	assert.Contains(t, edit.Data, "updatedAt")

	// The editor receives the echo as well.
	framesB := waitFrames(t, cb, 2)
	assert.Equal(t, notes.EventEditNote, framesB[1].Event)
}

func TestEditEmptyPatch(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua"))
	s := newTestServer(store)

	c := newMockConn("c1", identity("ua", "Alice"))
	err := dispatch(s, notes.EventEditNote, map[string]any{"room": "r1"}, c)
	assert.ErrorIs(t, err, errs.ErrBadPayload)
}

// ---- delete ----

func TestDeleteRejectsNonMember(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua"))
	s := newTestServer(store)

	cc := newMockConn("c1", identity("uc", "Carol"))
	err := dispatch(s, notes.EventDeleteNote, map[string]any{"room": "r1"}, cc)
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
}

func TestDeleteNotifiesRoomAndDropsInitiator(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua", "ub"))
	s := newTestServer(store)

	ca := newMockConn("c1", identity("ua", "Alice"))
	cb := newMockConn("c2", identity("ub", "Bob"))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, ca))
	require.NoError(t, dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, cb))
	waitFrames(t, ca, 2)
	waitFrames(t, cb, 1)

	require.NoError(t, dispatch(s, notes.EventDeleteNote, map[string]any{"room": "r1"}, ca))

	// The initiator's ack is queued before the close.
	framesA := ca.frames(t)
	last := framesA[len(framesA)-1]
	assert.Equal(t, notes.EventDeleteNote, last.Event)
	assert.Equal(t, true, last.Data["deleted"])
	assert.True(t, ca.isClosed())

	framesB := waitFrames(t, cb, 2)
	assert.Equal(t, notes.EventDeleteNote, framesB[1].Event)

	// The room no longer resolves for anyone.
	err := dispatch(s, notes.EventJoinRoom, map[string]any{"room": "r1"}, cb)
	assert.ErrorIs(t, err, errs.ErrRoomNotFound)
}

// ---- payload validation ----

func TestHandlersRejectMissingRoom(t *testing.T) {
	store := newFakeStore(testNote("r1", "ua"))
	s := newTestServer(store)
	c := newMockConn("c1", identity("ua", "Alice"))

	for _, event := range []string{
		notes.EventJoinRoom,
		notes.EventLeaveRoom,
		notes.EventEditNote,
		notes.EventDeleteNote,
	} {
		t.Run(event, func(t *testing.T) {
			err := dispatch(s, event, map[string]any{}, c)
			assert.ErrorIs(t, err, errs.ErrBadPayload)
		})
	}
}
