package service

import (
	"context"
	"errors"
	"fmt"
	"liveexperience/internal/cache"
	"liveexperience/internal/model"
	"liveexperience/internal/repository"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNotActive    = errors.New("event is not live yet")
	ErrInvalidRegistrant = errors.New("name and a valid email are required")
)

// EventService handles the live event listing and registrations
type EventService struct {
	eventRepo  repository.EventRepo
	regRepo    repository.RegistrationRepo
	eventCache cache.EventCache
	log        zerolog.Logger
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo repository.EventRepo,
	regRepo repository.RegistrationRepo,
	eventCache cache.EventCache,
	log zerolog.Logger,
) *EventService {
	return &EventService{
		eventRepo:  eventRepo,
		regRepo:    regRepo,
		eventCache: eventCache,
		log:        log,
	}
}

// List returns all events ordered by date
func (s *EventService) List(ctx context.Context) ([]*model.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Get returns an event, reading through the Redis cache
func (s *EventService) Get(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.eventCache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("event", id).Msg("event cache read failed")
	}
	if event != nil {
		return event, nil
	}

	event, err = s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if err := s.eventCache.Set(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", id).Msg("event cache write failed")
	}
	return event, nil
}

// Register records interest in an event. Registering twice with the same
// email returns the existing registration.
func (s *EventService) Register(ctx context.Context, eventID string, req *model.RegisterRequest) (*model.Registration, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" {
		return nil, ErrInvalidRegistrant
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidRegistrant
	}

	if _, err := s.Get(ctx, eventID); err != nil {
		return nil, err
	}

	existing, err := s.regRepo.FindByEmail(ctx, eventID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	reg := &model.Registration{
		EventID: eventID,
		Name:    name,
		Email:   email,
	}
	if _, err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	s.log.Info().Str("event", eventID).Msg("registration created")
	return reg, nil
}
