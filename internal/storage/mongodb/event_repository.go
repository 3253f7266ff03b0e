package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventbook/server/internal/domain/events"
)

type EventRepository struct {
	coll *mongo.Collection
}

type eventDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Date        time.Time          `bson:"date"`
	CreatorID   string             `bson:"creator_id"`
	LinkState   string             `bson:"link_state"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d eventDocument) toDomain() *events.Event {
	return &events.Event{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Date:        d.Date,
		CreatorID:   d.CreatorID,
		LinkState:   events.LinkState(d.LinkState),
		CreatedAt:   d.CreatedAt,
	}
}

func (r *EventRepository) Insert(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	doc := eventDocument{
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Date:        params.Date,
		CreatorID:   params.CreatorID,
		LinkState:   string(events.LinkStateCreated),
		CreatedAt:   time.Now().UTC(),
	}

	result, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert event: unexpected id type %T", result.InsertedID)
	}

	doc.ID = id
	return doc.toDomain(), nil
}

func (r *EventRepository) MarkLinked(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("mark linked: invalid id %q", id)
	}

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"link_state": string(events.LinkStateLinked)}},
	)
	if err != nil {
		return fmt.Errorf("mark linked: %w", err)
	}
	return nil
}

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	out := make([]events.Event, 0, len(docs))
	for _, doc := range docs {
		out = append(out, *doc.toDomain())
	}
	return out, nil
}

func (r *EventRepository) FindByIDs(ctx context.Context, ids []string) ([]events.Event, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return []events.Event{}, nil
	}

	cursor, err := r.coll.Find(ctx,
		bson.M{"_id": bson.M{"$in": oids}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	out := make([]events.Event, 0, len(docs))
	for _, doc := range docs {
		out = append(out, *doc.toDomain())
	}
	return out, nil
}

var _ events.Repository = (*EventRepository)(nil)
