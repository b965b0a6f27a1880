package handlers

import (
	"NProject/service/notes"
	"NProject/tools/decode"
	"NProject/tools/errs"
)

// LeaveRoomHandler drops the connection out of a room. Leaving a room the
// user never joined is a silent no-op; persistent membership on the note is
// untouched either way.
type LeaveRoomHandler struct{}

func (h *LeaveRoomHandler) Event() string { return notes.EventLeaveRoom }

func (h *LeaveRoomHandler) Handle(c *notes.Context, f *notes.Frame, conn notes.Conn) error {
	p, err := decode.DecodeMap[notes.LeavePayload](f.Data)
	if err != nil || p.Room == "" {
		return errs.ErrBadPayload.WithDetail("leave-room requires a room token")
	}
	s := c.S
	identity := conn.Identity()

	if !s.Tracker().Leave(identity.ID, p.Room) {
		return nil
	}

	// Unsubscribe first so the leaver does not receive their own notice.
	// Room occupancy is per user, so every one of the user's connections
	// drops the subscription, not just the one that sent the frame.
	s.Hub().Unsubscribe(p.Room, conn.ID())
	for _, uc := range s.ConnMgr().ListByUser(identity.ID) {
		s.Hub().Unsubscribe(p.Room, uc.ID())
	}
	s.Hub().Broadcast(p.Room,
		notes.BuildUserNotice(notes.EventLeaveRoom, identity, identity.DisplayName()+" left the room"))
	return nil
}
