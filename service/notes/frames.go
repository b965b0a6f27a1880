package notes

import (
	"encoding/json"
	"time"

	notemodel "NProject/module/note/model"
	usermodel "NProject/module/user/model"
	"NProject/tools/errs"

	"github.com/pkg/errors"
)

// Frame is the wire envelope: {"event": "...", "data": {...}}.
// Payloads are caller-supplied and untrusted; they stay a raw map here and
// are decoded per handler.
type Frame struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(err, "unmarshal frame")
	}
	if f.Event == "" {
		return nil, errors.New("frame missing event")
	}
	return &f, nil
}

func MarshalFrame(event string, data any) []byte {
	b, err := json.Marshal(Frame{Event: event, Data: toMap(data)})
	if err != nil {
		// Everything we emit is built server-side from marshalable types.
		return []byte(`{"event":"` + event + `"}`)
	}
	return b
}

func toMap(data any) map[string]any {
	if data == nil {
		return nil
	}
	if m, ok := data.(map[string]any); ok {
		return m
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}

// ---- inbound payloads ----

type AuthPayload struct {
	Token string `json:"token"`
}

type JoinPayload struct {
	Room string `json:"room"`
}

type LeavePayload struct {
	Room string `json:"room"`
}

type EditPayload struct {
	Room    string    `json:"room"`
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Members *[]string `json:"members,omitempty"`
}

func (p *EditPayload) Patch() notemodel.UpdateNote {
	return notemodel.UpdateNote{Title: p.Title, Content: p.Content, Members: p.Members}
}

type DeletePayload struct {
	Room string `json:"room"`
}

// ---- outbound builders ----

// BuildUserNotice builds the join-room / leave-room broadcast:
// {user, message} with a human-readable actor message.
func BuildUserNotice(event string, user *usermodel.Identity, message string) []byte {
	return MarshalFrame(event, map[string]any{
		"user":    user,
		"message": message,
	})
}

// BuildEditNotice carries only the fields that actually changed, plus the
// server-side timestamp in unix millis.
func BuildEditNotice(patch notemodel.UpdateNote, updatedAt time.Time) []byte {
	data := map[string]any{
		"updatedAt": updatedAt.UnixMilli(),
	}
	if patch.Title != nil {
		data["title"] = *patch.Title
	}
	if patch.Content != nil {
		data["content"] = *patch.Content
	}
	if patch.Members != nil {
		data["members"] = *patch.Members
	}
	return MarshalFrame(EventEditNote, data)
}

// BuildDeleteNotice is the deletion acknowledgement broadcast to the room.
func BuildDeleteNotice(room string) []byte {
	return MarshalFrame(EventDeleteNote, map[string]any{
		"room":    room,
		"deleted": true,
	})
}

// BuildErrorFrame is sent to the originating connection only, never
// broadcast. One structured shape for every rejection path.
func BuildErrorFrame(ce *errs.CodeError) []byte {
	return MarshalFrame(EventError, map[string]any{
		"code": ce.Code,
		"msg":  ce.Msg,
	})
}
