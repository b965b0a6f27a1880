package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is the shared document behind a collaboration room. The room token
// is the broadcast topic and the authorization scope: owner and members may
// mutate, anyone holding the token may join (and becomes a member by doing
// so).
type Note struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Room    string             `bson:"room" json:"room"` // opaque token, unique
	Title   string             `bson:"title,omitempty" json:"title,omitempty"`
	Content string             `bson:"content,omitempty" json:"content,omitempty"`
	OwnerID string             `bson:"owner_id" json:"ownerId"`
	Members []string           `bson:"members" json:"members"`

	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"-"` // soft delete
}

// CanMutate is the authorization rule for edit/delete: owner or listed
// member. Join/leave deliberately bypass this check.
func (n *Note) CanMutate(userID string) bool {
	if n.OwnerID == userID {
		return true
	}
	return n.HasMember(userID)
}

func (n *Note) HasMember(userID string) bool {
	for _, m := range n.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// UpdateNote is a field-level patch; nil means "leave unchanged".
// Last writer wins per field, there is no merge.
type UpdateNote struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Members *[]string `json:"members,omitempty"`
}

// CreateNote is the payload accepted by the HTTP create endpoint.
type CreateNote struct {
	Title   string   `json:"title,omitempty"`
	Content string   `json:"content,omitempty"`
	Members []string `json:"members,omitempty"`
}
