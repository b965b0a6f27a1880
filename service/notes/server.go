package notes

import (
	"NProject/logger"
	"NProject/tools/errs"
	"NProject/tools/safe"
)

// Deps carries everything the gateway needs; main constructs each piece
// once during start-up and passes it in here. No package-level state.
type Deps struct {
	NodeID   string
	Disp     *Dispatcher
	ConnMgr  *ConnManager
	Tracker  *RoomTracker
	Hub      *Hub
	Notes    NoteStore
	Resolver TokenResolver
	Presence PresenceStore
}

// Server is the session gateway: it authenticates connections, dispatches
// inbound events, and owns the room/broadcast state for this process.
type Server struct {
	nodeID   string
	disp     *Dispatcher
	connMgr  *ConnManager
	tracker  *RoomTracker
	hub      *Hub
	notes    NoteStore
	resolver TokenResolver
	presence PresenceStore
}

func NewServer(d Deps) *Server {
	safe.MustNotNil(d.Disp, "dispatcher")
	safe.MustNotNil(d.ConnMgr, "conn manager")
	safe.MustNotNil(d.Tracker, "room tracker")
	safe.MustNotNil(d.Hub, "hub")
	safe.MustNotNil(d.Notes, "note store")
	safe.MustNotNil(d.Resolver, "token resolver")
	safe.MustNotNil(d.Presence, "presence store")

	return &Server{
		nodeID:   d.NodeID,
		disp:     d.Disp,
		connMgr:  d.ConnMgr,
		tracker:  d.Tracker,
		hub:      d.Hub,
		notes:    d.Notes,
		resolver: d.Resolver,
		presence: d.Presence,
	}
}

func (s *Server) NodeID() string          { return s.nodeID }
func (s *Server) Disp() *Dispatcher       { return s.disp }
func (s *Server) ConnMgr() *ConnManager   { return s.connMgr }
func (s *Server) Tracker() *RoomTracker   { return s.tracker }
func (s *Server) Hub() *Hub               { return s.hub }
func (s *Server) Notes() NoteStore        { return s.notes }
func (s *Server) Resolver() TokenResolver { return s.resolver }
func (s *Server) Presence() PresenceStore { return s.presence }

// SendError emits the structured error event to the originating connection
// only; errors are never broadcast to a room.
func (s *Server) SendError(conn Conn, err error) {
	ce := errs.AsCodeError(err, errs.ErrPersistence)
	if serr := conn.Send(BuildErrorFrame(ce)); serr != nil {
		logger.Infof("[ws] drop error frame conn=%s: %v", conn.ID(), serr)
	}
}
