package app

import (
	"context"
	"fmt"
	"liveexperience/internal/cache"
	"liveexperience/internal/config"
	"liveexperience/internal/repository"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// App holds the storage connections shared by the server and the seeder
type App struct {
	Mongo *mongo.Client
	DB    *mongo.Database
	Redis *redis.Client

	EventRepo        repository.EventRepo
	RegistrationRepo repository.RegistrationRepo
	EventCache       cache.EventCache
	UnlockCache      cache.UnlockCache
}

// Connect dials MongoDB and Redis, pings both and builds the stores
func Connect(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Info().Str("db", cfg.MongoDB).Msg("connected to MongoDB")

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")

	db := mongoClient.Database(cfg.MongoDB)
	return &App{
		Mongo:            mongoClient,
		DB:               db,
		Redis:            rdb,
		EventRepo:        repository.NewEventRepo(db),
		RegistrationRepo: repository.NewRegistrationRepo(db),
		EventCache:       cache.NewEventCache(rdb),
		UnlockCache:      cache.NewUnlockCache(rdb, cfg.UnlockTTL),
	}, nil
}

// Close releases both connections
func (a *App) Close(ctx context.Context) error {
	redisErr := a.Redis.Close()
	if err := a.Mongo.Disconnect(ctx); err != nil {
		return err
	}
	return redisErr
}
