package service

import (
	"context"
	"errors"
	"fmt"
	"liveexperience/internal/cache"
	"liveexperience/internal/model"
	"liveexperience/internal/wizard"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionSettings tunes session lifetime
type SessionSettings struct {
	IdleTTL       time.Duration
	ReapInterval  time.Duration
	FollowUpDelay time.Duration
}

type liveSession struct {
	wiz      *wizard.Session
	clientID string
	header   model.EventHeader
}

// SessionService owns every live wizard session. Sessions are held in memory
// only and are discarded on End, on idle expiry, or on Shutdown.
type SessionService struct {
	catalog     *wizard.Catalog
	events      *EventService
	unlocks     cache.UnlockCache
	authSvc     *AuthService
	followUps   wizard.FollowUpGenerator
	settings    SessionSettings
	log         zerolog.Logger
	now         func() time.Time
	broadcaster Broadcaster

	mu       sync.RWMutex
	sessions map[string]*liveSession

	ctx    context.Context
	cancel context.CancelFunc
}

// NewSessionService creates a new session service
func NewSessionService(
	catalog *wizard.Catalog,
	events *EventService,
	unlocks cache.UnlockCache,
	authSvc *AuthService,
	settings SessionSettings,
	log zerolog.Logger,
) *SessionService {
	if settings.FollowUpDelay <= 0 {
		settings.FollowUpDelay = wizard.DefaultFollowUpDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionService{
		catalog:   catalog,
		events:    events,
		unlocks:   unlocks,
		authSvc:   authSvc,
		followUps: wizard.DelayedFollowUp{Delay: settings.FollowUpDelay},
		settings:  settings,
		log:       log,
		now:       time.Now,
		sessions:  make(map[string]*liveSession),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetFollowUpGenerator replaces the default delayed follow-up reveal
func (s *SessionService) SetFollowUpGenerator(g wizard.FollowUpGenerator) {
	s.followUps = g
}

func (s *SessionService) notifier() wizard.Notifier {
	if s.broadcaster == nil {
		return nil
	}
	return s.broadcaster
}

// Join starts a new wizard session for an active event. A still valid token
// from an earlier page load keeps the client identity, and with it the
// unlocked flag.
func (s *SessionService) Join(ctx context.Context, eventID, priorToken string) (*model.JoinResponse, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, ErrEventNotActive
	}

	clientID := ""
	if priorToken != "" {
		if claims, err := s.authSvc.ValidateSessionToken(priorToken); err == nil && claims.EventID == eventID {
			clientID = claims.ClientID
		}
	}
	unlocked := false
	if clientID == "" {
		clientID = "c_" + uuid.New().String()
	} else {
		unlocked, err = s.unlocks.IsUnlocked(ctx, eventID, clientID)
		if err != nil {
			s.log.Warn().Err(err).Str("client", clientID).Msg("unlock flag lookup failed")
			unlocked = false
		}
	}

	sessionID := uuid.New().String()
	token, err := s.authSvc.GenerateSessionToken(sessionID, clientID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	wiz := wizard.NewSession(s.ctx, s.catalog, wizard.Options{
		ID:        sessionID,
		EventID:   eventID,
		Unlocked:  unlocked,
		FollowUps: s.followUps,
		Notifier:  s.notifier(),
		Logger:    s.log,
		Now:       s.now,
	})

	s.mu.Lock()
	s.sessions[sessionID] = &liveSession{wiz: wiz, clientID: clientID, header: event.Header()}
	s.mu.Unlock()

	s.log.Info().
		Str("session", sessionID).
		Str("event", eventID).
		Bool("unlocked", unlocked).
		Msg("session started")

	return &model.JoinResponse{
		SessionID: sessionID,
		Token:     token,
		SessionView: model.SessionView{
			Event: event.Header(),
			State: wiz.Snapshot(),
		},
	}, nil
}

func (s *SessionService) get(id string) (*liveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ls, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ls, nil
}

// Session returns the live wizard session
func (s *SessionService) Session(id string) (*wizard.Session, error) {
	ls, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return ls.wiz, nil
}

// View returns the event banner and a snapshot of the session
func (s *SessionService) View(id string) (*model.SessionView, error) {
	ls, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return &model.SessionView{Event: ls.header, State: ls.wiz.Snapshot()}, nil
}

// Unlock unlocks the session and remembers the client as unlocked across reloads
func (s *SessionService) Unlock(ctx context.Context, id, code string) error {
	ls, err := s.get(id)
	if err != nil {
		return err
	}
	if err := ls.wiz.Unlock(code); err != nil {
		return err
	}
	if err := s.unlocks.MarkUnlocked(ctx, ls.wiz.EventID(), ls.clientID); err != nil {
		// The session itself is unlocked; only the reload shortcut is lost
		s.log.Warn().Err(err).Str("session", id).Msg("failed to persist unlock flag")
	}
	return nil
}

// End closes a session and drops its socket
func (s *SessionService) End(id string) error {
	s.mu.Lock()
	ls, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	ls.wiz.Close()
	if s.broadcaster != nil {
		s.broadcaster.DisconnectSession(id)
	}
	s.log.Info().Str("session", id).Msg("session ended")
	return nil
}

// Count returns the number of live sessions
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run reaps idle sessions until ctx is done
func (s *SessionService) Run(ctx context.Context) {
	interval := s.settings.ReapInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.reapIdle(); n > 0 {
				s.log.Info().Int("count", n).Msg("reaped idle sessions")
			}
		}
	}
}

// reapIdle ends sessions idle longer than IdleTTL and returns how many
func (s *SessionService) reapIdle() int {
	if s.settings.IdleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.settings.IdleTTL)

	var stale []string
	s.mu.RLock()
	for id, ls := range s.sessions {
		if ls.wiz.LastActivity().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()

	reaped := 0
	for _, id := range stale {
		if err := s.End(id); err == nil {
			reaped++
		}
	}
	return reaped
}

// Shutdown closes every session, cancelling outstanding follow-up tasks
func (s *SessionService) Shutdown() {
	s.mu.Lock()
	live := s.sessions
	s.sessions = make(map[string]*liveSession)
	s.mu.Unlock()

	s.cancel()
	for id, ls := range live {
		ls.wiz.Close()
		if s.broadcaster != nil {
			s.broadcaster.DisconnectSession(id)
		}
	}
	s.log.Info().Int("count", len(live)).Msg("sessions closed")
}
