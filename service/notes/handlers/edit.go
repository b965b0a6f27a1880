package handlers

import (
	"time"

	"NProject/service/notes"
	"NProject/tools/decode"
	"NProject/tools/errs"
)

// EditNoteHandler persists a field-level patch and echoes it to the room.
// Only the note owner or a listed member may edit. Concurrent edits are
// last-writer-wins per field; nothing is merged.
type EditNoteHandler struct{}

func (h *EditNoteHandler) Event() string { return notes.EventEditNote }

func (h *EditNoteHandler) Handle(c *notes.Context, f *notes.Frame, conn notes.Conn) error {
	p, err := decode.DecodeMap[notes.EditPayload](f.Data)
	if err != nil || p.Room == "" {
		return errs.ErrBadPayload.WithDetail("edit-note requires a room token")
	}
	if p.Title == nil && p.Content == nil && p.Members == nil {
		return errs.ErrBadPayload.WithDetail("edit-note patch is empty")
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

	patch := p.Patch()
	now := time.Now()
	ctx, cancel := opContext()
	uerr := s.Notes().Update(ctx, note.ID, patch)
	cancel()
	if uerr != nil {
		return errs.ErrPersistence.WithDetail(uerr.Error())
	}

	// The editor is subscribed too, so the echo doubles as their ack.
	s.Hub().Broadcast(p.Room, notes.BuildEditNotice(patch, now))
	return nil
}
