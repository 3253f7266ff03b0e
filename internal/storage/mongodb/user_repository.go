package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventbook/server/internal/domain/users"
)

type UserRepository struct {
	coll *mongo.Collection
}

// userDocument is the stored shape. References to events are kept as
// opaque hex ids, not embedded documents; traversal always goes back
// through the store.
type userDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Email           string             `bson:"email"`
	PasswordHash    string             `bson:"password_hash"`
	CreatedEventIDs []string           `bson:"created_events"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (d userDocument) toDomain() *users.User {
	ids := d.CreatedEventIDs
	if ids == nil {
		ids = []string{}
	}
	return &users.User{
		ID:              d.ID.Hex(),
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		CreatedEventIDs: ids,
		CreatedAt:       d.CreatedAt,
	}
}

func (r *UserRepository) Insert(ctx context.Context, params users.CreateParams) (*users.User, error) {
	doc := userDocument{
		Email:           params.Email,
		PasswordHash:    params.PasswordHash,
		CreatedEventIDs: []string{},
		CreatedAt:       time.Now().UTC(),
	}

	result, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", result.InsertedID)
	}

	doc.ID = id
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*users.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Malformed ids cannot reference any stored user.
		return nil, users.ErrNotFound
	}

	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]users.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]users.User, 0, len(docs))
	for _, doc := range docs {
		out = append(out, *doc.toDomain())
	}
	return out, nil
}

// AppendCreatedEvent pushes eventID onto the user's created_events with
// a single atomic update against the current document, so two racing
// appends both land. A zero match count means the user does not exist.
func (r *UserRepository) AppendCreatedEvent(ctx context.Context, userID, eventID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return users.ErrNotFound
	}

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"created_events": eventID}},
	)
	if err != nil {
		return fmt.Errorf("append created event: %w", err)
	}
	if result.MatchedCount == 0 {
		return users.ErrNotFound
	}
	return nil
}

var _ users.Repository = (*UserRepository)(nil)
