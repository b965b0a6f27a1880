package store

import (
	"context"
	"time"

	"NProject/module/user/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collUsers = "users"

type Repo struct {
	DB *mongo.Database
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) coll() *mongo.Collection { return r.DB.Collection(collUsers) }

// EnsureIndexes creates the unique email index; call once at start-up.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrap(err, "create users indexes")
}

func (r *Repo) Create(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	res, err := r.coll().InsertOne(ctx, u)
	if err != nil {
		return errors.Wrap(err, "insert user")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// FindByEmail returns (nil, nil) when no such user exists.
func (r *Repo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.coll().FindOne(ctx, bson.M{"email": email, "deleted_at": nil}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user by email")
	}
	return &u, nil
}

// FindByID returns (nil, nil) when the id is unknown or not a valid object id.
func (r *Repo) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var u model.User
	err = r.coll().FindOne(ctx, bson.M{"_id": oid, "deleted_at": nil}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &u, nil
}
