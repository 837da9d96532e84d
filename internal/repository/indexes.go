package repository

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. Failures are
// logged, not fatal: queries still work without them, only slower.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log zerolog.Logger) {
	events := db.Collection("events")
	registrations := db.Collection("registrations")

	// events: listing is ordered by date
	createIndex(ctx, log, events, bson.D{{Key: "date", Value: 1}}, false)

	// registrations: one per email per event
	createIndex(ctx, log, registrations, bson.D{
		{Key: "eventId", Value: 1},
		{Key: "email", Value: 1},
	}, true)

	log.Debug().Msg("mongo indexes ensured")
}

func createIndex(ctx context.Context, log zerolog.Logger, coll *mongo.Collection, keys bson.D, unique bool) {
	opts := options.Index().SetUnique(unique)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		log.Warn().Err(err).Str("collection", coll.Name()).Msg("failed to create index")
	}
}
