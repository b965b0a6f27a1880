package notes

import (
	"context"

	notemodel "NProject/module/note/model"
	usermodel "NProject/module/user/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wire event names, one logical namespace dedicated to note collaboration.
const (
	EventAuth       = "auth"
	EventJoinRoom   = "join-room"
	EventLeaveRoom  = "leave-room"
	EventEditNote   = "edit-note"
	EventDeleteNote = "delete-note"
	EventError      = "error"
)

// Conn is one client link. The identity is established during the handshake
// and never changes afterwards.
type Conn interface {
	ID() string
	Identity() *usermodel.Identity
	Send(data []byte) error
	Close() error
}

// NoteStore is the note access gateway the session gateway consults for
// authorization data and mutations. It never owns persistence.
type NoteStore interface {
	FindByRoom(ctx context.Context, room string) (*notemodel.Note, error)
	Update(ctx context.Context, id primitive.ObjectID, patch notemodel.UpdateNote) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TokenResolver turns a bearer token into a user identity. Idempotent,
// side-effect free; every failure is surfaced uniformly as unauthenticated.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*usermodel.Identity, error)
}

// PresenceStore records which users hold a live connection.
type PresenceStore interface {
	Online(ctx context.Context, user string) error
	Offline(ctx context.Context, user string) error
}

// Context hands the server to event handlers.
type Context struct {
	S *Server
}

// Handler processes one inbound event type. A returned error is converted
// to an `error` event on the originating connection only.
type Handler interface {
	Event() string
	Handle(c *Context, f *Frame, conn Conn) error
}
