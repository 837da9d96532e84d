package repository

import (
	"context"
	"liveexperience/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepo handles MongoDB operations for live events
type EventRepo interface {
	List(ctx context.Context) ([]*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Upsert(ctx context.Context, event *model.Event) error
}

type eventRepo struct {
	collection *mongo.Collection
}

// NewEventRepo creates a new event repository.
// Event ids are human readable slugs stored as _id.
func NewEventRepo(db *mongo.Database) EventRepo {
	return &eventRepo{
		collection: db.Collection("events"),
	}
}

func (r *eventRepo) List(ctx context.Context) ([]*model.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*model.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) Upsert(ctx context.Context, event *model.Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": event.ID}, event, opts)
	return err
}
