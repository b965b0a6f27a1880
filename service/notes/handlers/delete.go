package handlers

import (
	"NProject/service/notes"
	"NProject/tools/decode"
	"NProject/tools/errs"
)

// DeleteNoteHandler soft-deletes the note behind a room, notifies the room,
// and then drops the initiating connection. The notice is queued before the
// close, so the initiator still receives the acknowledgement.
type DeleteNoteHandler struct{}

func (h *DeleteNoteHandler) Event() string { return notes.EventDeleteNote }

func (h *DeleteNoteHandler) Handle(c *notes.Context, f *notes.Frame, conn notes.Conn) error {
	p, err := decode.DecodeMap[notes.DeletePayload](f.Data)
	if err != nil || p.Room == "" {
		return errs.ErrBadPayload.WithDetail("delete-note requires a room token")
	}
	s := c.S
	identity := conn.Identity()

	note, err := findLiveNote(s, p.Room)
	if err != nil {
		return err
	}
	if !note.CanMutate(identity.ID) {
		return errs.ErrNotAuthorized
	}

	ctx, cancel := opContext()
	derr := s.Notes().Delete(ctx, note.ID)
	cancel()
	if derr != nil {
		return errs.ErrPersistence.WithDetail(derr.Error())
	}

	// Queue the ack on the initiator directly before closing; the broadcast
	// path is asynchronous and would race the close. Remaining subscribers
	// get the notice through the hub.
	notice := notes.BuildDeleteNotice(p.Room)
	s.Hub().Unsubscribe(p.Room, conn.ID())
	_ = conn.Send(notice)
	s.Hub().Broadcast(p.Room, notice)
	_ = conn.Close()
	return nil
}
