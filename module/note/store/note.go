package store

import (
	"context"
	"time"

	"NProject/module/note/model"
	"NProject/tools"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collNotes = "notes"

// roomTokenBytes: 16 random bytes, hex encoded, per note.
const roomTokenBytes = 16

type Repo struct {
	DB *mongo.Database
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) coll() *mongo.Collection { return r.DB.Collection(collNotes) }

// EnsureIndexes creates the unique room index; call once at start-up.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "room", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrap(err, "create notes indexes")
}

// Create mints a fresh room token and inserts the note.
func (r *Repo) Create(ctx context.Context, ownerID string, data model.CreateNote) (*model.Note, error) {
	n := &model.Note{
		Room:      NewRoomToken(),
		Title:     data.Title,
		Content:   data.Content,
		OwnerID:   ownerID,
		Members:   data.Members,
		CreatedAt: time.Now(),
	}
	if n.Members == nil {
		n.Members = []string{}
	}
	res, err := r.coll().InsertOne(ctx, n)
	if err != nil {
		return nil, errors.Wrap(err, "insert note")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return n, nil
}

// FindByRoom returns (nil, nil) when the room does not resolve to a live note.
func (r *Repo) FindByRoom(ctx context.Context, room string) (*model.Note, error) {
	var n model.Note
	err := r.coll().FindOne(ctx, bson.M{"room": room, "deleted_at": nil}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find note by room")
	}
	return &n, nil
}

func (r *Repo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Note, error) {
	var n model.Note
	err := r.coll().FindOne(ctx, bson.M{"_id": id, "deleted_at": nil}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find note by id")
	}
	return &n, nil
}

func (r *Repo) FindAllByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	cur, err := r.coll().Find(ctx, bson.M{"owner_id": ownerID, "deleted_at": nil})
	if err != nil {
		return nil, errors.Wrap(err, "find notes by owner")
	}
	defer cur.Close(ctx)

	var out []model.Note
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode notes")
	}
	return out, nil
}

// Update applies a field-level patch; nil fields stay untouched.
func (r *Repo) Update(ctx context.Context, id primitive.ObjectID, patch model.UpdateNote) error {
	set := bson.M{"updated_at": time.Now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Members != nil {
		set["members"] = *patch.Members
	}
	_, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return errors.Wrap(err, "update note")
}

// Delete is a soft delete: the document stays, findByRoom stops resolving it.
func (r *Repo) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll().UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"deleted_at": time.Now()}})
	return errors.Wrap(err, "delete note")
}

// NewRoomToken mints the opaque room token for a new note.
func NewRoomToken() string {
	return tools.RandHex(roomTokenBytes)
}
