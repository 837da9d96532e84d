package service

import (
	"context"
	"errors"
	"fmt"
	"liveexperience/internal/model"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*model.Event
	gets   int
}

func newFakeEventRepo(events ...*model.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: make(map[string]*model.Event)}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeEventRepo) List(ctx context.Context) ([]*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Event
	for _, e := range r.events {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) Upsert(ctx context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = event
	return nil
}

type fakeRegistrationRepo struct {
	mu   sync.Mutex
	regs []*model.Registration
}

func (r *fakeRegistrationRepo) Create(ctx context.Context, reg *model.Registration) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg.ID = fmt.Sprintf("reg-%d", len(r.regs)+1)
	reg.RegisteredAt = time.Now()
	r.regs = append(r.regs, reg)
	return reg.ID, nil
}

func (r *fakeRegistrationRepo) FindByEmail(ctx context.Context, eventID, email string) (*model.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regs {
		if reg.EventID == eventID && strings.EqualFold(reg.Email, email) {
			return reg, nil
		}
	}
	return nil, nil
}

type fakeEventCache struct {
	mu     sync.Mutex
	events map[string]*model.Event
	err    error
}

func newFakeEventCache() *fakeEventCache {
	return &fakeEventCache{events: make(map[string]*model.Event)}
}

func (c *fakeEventCache) Set(ctx context.Context, event *model.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	cp := *event
	c.events[event.ID] = &cp
	return nil
}

func (c *fakeEventCache) Get(ctx context.Context, id string) (*model.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	e, ok := c.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (c *fakeEventCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.events, id)
	return nil
}

type fakeUnlockCache struct {
	mu       sync.Mutex
	unlocked map[string]bool
	err      error
}

func newFakeUnlockCache() *fakeUnlockCache {
	return &fakeUnlockCache{unlocked: make(map[string]bool)}
}

func (c *fakeUnlockCache) MarkUnlocked(ctx context.Context, eventID, clientID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.unlocked[eventID+"/"+clientID] = true
	return nil
}

func (c *fakeUnlockCache) IsUnlocked(ctx context.Context, eventID, clientID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	return c.unlocked[eventID+"/"+clientID], nil
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	notes        map[string][]model.Notification
	disconnected []string
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{notes: make(map[string][]model.Notification)}
}

func (b *recordingBroadcaster) Notify(sessionID string, n model.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notes[sessionID] = append(b.notes[sessionID], n)
}

func (b *recordingBroadcaster) DisconnectSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, sessionID)
}

func (b *recordingBroadcaster) kinds(sessionID string) []model.NotificationKind {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.NotificationKind
	for _, n := range b.notes[sessionID] {
		out = append(out, n.Kind)
	}
	return out
}

var errCacheDown = errors.New("redis: connection refused")

func miamiEvent() *model.Event {
	return &model.Event{
		ID:       "miami-2025",
		Title:    "Founder's Fortune Academy",
		Host:     "Jeremy Schwartz",
		City:     "Miami",
		Country:  "USA",
		Date:     time.Date(2025, time.February, 14, 9, 0, 0, 0, time.UTC),
		IsActive: true,
	}
}

func londonEvent() *model.Event {
	return &model.Event{
		ID:      "london-2025",
		Title:   "Founder's Fortune Academy",
		City:    "London",
		Country: "UK",
		Date:    time.Date(2025, time.May, 3, 9, 0, 0, 0, time.UTC),
	}
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
