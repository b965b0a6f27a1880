package handlers

import (
	notemodel "NProject/module/note/model"
	"NProject/service/notes"
	"NProject/tools/decode"
	"NProject/tools/errs"
)

// JoinRoomHandler moves the connection into a note room. Joining is open to
// anyone holding the room token; a first-time visitor is granted membership
// before any tracking state changes, so a token-holder who joins can
// immediately edit.
type JoinRoomHandler struct{}

func (h *JoinRoomHandler) Event() string { return notes.EventJoinRoom }

func (h *JoinRoomHandler) Handle(c *notes.Context, f *notes.Frame, conn notes.Conn) error {
	p, err := decode.DecodeMap[notes.JoinPayload](f.Data)
	if err != nil || p.Room == "" {
		return errs.ErrBadPayload.WithDetail("join-room requires a room token")
	}
	s := c.S
	identity := conn.Identity()

	note, err := findLiveNote(s, p.Room)
	if err != nil {
		return err
	}

	if !note.CanMutate(identity.ID) {
		members := append(note.Members, identity.ID)
		ctx, cancel := opContext()
		uerr := s.Notes().Update(ctx, note.ID, notemodel.UpdateNote{Members: &members})
		cancel()
		if uerr != nil {
			return errs.ErrPersistence.WithDetail(uerr.Error())
		}
	}

	// A user occupies one room at a time: entering this one vacates any
	// other, with a leave notice to the room being left behind. The room is
	// tracked per user, so every connection the user holds (other tabs
	// included) is unsubscribed from the vacated rooms.
	siblings := s.ConnMgr().ListByUser(identity.ID)
	for _, vacated := range s.Tracker().Join(identity.ID, p.Room) {
		s.Hub().Unsubscribe(vacated, conn.ID())
		for _, uc := range siblings {
			s.Hub().Unsubscribe(vacated, uc.ID())
		}
		s.Hub().Broadcast(vacated,
			notes.BuildUserNotice(notes.EventLeaveRoom, identity, identity.DisplayName()+" left the room"))
	}

	s.Hub().Subscribe(p.Room, conn)
	s.Hub().Broadcast(p.Room,
		notes.BuildUserNotice(notes.EventJoinRoom, identity, identity.DisplayName()+" joined the room"))
	return nil
}
