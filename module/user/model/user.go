package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the account master record. Credentials stay in this document;
// everything the gateway hands to peers goes through Identity.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"first_name" json:"firstName"`
	LastName  string             `bson:"last_name" json:"lastName"`
	Email     string             `bson:"email" json:"email"` // unique
	Password  string             `bson:"password" json:"-"`  // bcrypt hash, never serialized

	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"-"` // soft delete
}

// Identity is the read-only projection attached to an authenticated
// connection and broadcast in join/leave notifications.
type Identity struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (u *User) Identity() *Identity {
	return &Identity{
		ID:        u.ID.Hex(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// DisplayName is used in the human-readable join/leave actor messages.
func (i *Identity) DisplayName() string {
	name := i.FirstName
	if i.LastName != "" {
		if name != "" {
			name += " "
		}
		name += i.LastName
	}
	if name == "" {
		name = i.Email
	}
	return name
}
