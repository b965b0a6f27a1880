// Package handlers holds one handler per websocket event. Handlers are
// stateless; everything they need arrives through the dispatch context.
package handlers

import (
	"context"
	"time"

	notemodel "NProject/module/note/model"
	"NProject/service/notes"
	"NProject/tools/errs"
)

// opTimeout bounds every store round-trip made while handling one event.
const opTimeout = 5 * time.Second

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// findLiveNote resolves a room token to its note. A room that does not
// resolve is reported to the caller as a structured not-found, never as a
// crash further down the line.
func findLiveNote(s *notes.Server, room string) (*notemodel.Note, error) {
	ctx, cancel := opContext()
	defer cancel()

	note, err := s.Notes().FindByRoom(ctx, room)
	if err != nil {
		return nil, errs.ErrPersistence.WithDetail(err.Error())
	}
	if note == nil {
		return nil, errs.ErrRoomNotFound
	}
	return note, nil
}

// RegisterAll wires every event handler into the dispatcher.
func RegisterAll(d *notes.Dispatcher) {
	d.Register(&JoinRoomHandler{})
	d.Register(&LeaveRoomHandler{})
	d.Register(&EditNoteHandler{})
	d.Register(&DeleteNoteHandler{})
}
