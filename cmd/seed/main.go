package main

import (
	"context"
	"liveexperience/internal/app"
	"liveexperience/internal/config"
	"liveexperience/internal/logging"
	"liveexperience/internal/model"
	"liveexperience/internal/repository"
	"time"
)

func main() {
	cfg := config.Load()
	log := logging.New(logging.Options{Level: cfg.LogLevel, Console: true})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := app.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("storage unavailable")
	}
	defer a.Close(context.Background())

	repository.EnsureIndexes(ctx, a.DB, log)

	events := []*model.Event{
		{
			ID:       "miami-2025",
			Title:    "Founder's Fortune Academy",
			Host:     "Jeremy Schwartz",
			City:     "Miami",
			Country:  "Florida, USA",
			Date:     time.Date(2025, time.February, 14, 9, 0, 0, 0, time.UTC),
			IsActive: true,
		},
		{
			ID:      "london-2025",
			Title:   "Founder's Fortune Academy",
			Host:    "Jeremy Schwartz",
			City:    "London",
			Country: "UK",
			Date:    time.Date(2025, time.May, 3, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:      "dubai-2025",
			Title:   "Founder's Fortune Academy",
			Host:    "Jeremy Schwartz",
			City:    "Dubai",
			Country: "UAE",
			Date:    time.Date(2025, time.September, 20, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, e := range events {
		if err := a.EventRepo.Upsert(ctx, e); err != nil {
			log.Fatal().Err(err).Str("event", e.ID).Msg("failed to seed event")
		}
		// Drop any stale cached copy so the server reads the new values
		if err := a.EventCache.Delete(ctx, e.ID); err != nil {
			log.Warn().Err(err).Str("event", e.ID).Msg("failed to evict cached event")
		}
		log.Info().Str("event", e.ID).Str("location", e.Location()).Msg("event seeded")
	}
}
