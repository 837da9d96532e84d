package wizard

import (
	"context"
	"liveexperience/internal/model"
	"time"
)

// DefaultFollowUpDelay is how long follow-up generation appears to take
const DefaultFollowUpDelay = 3 * time.Second

// FollowUpGenerator produces the follow-up prompt revealed after a question's
// first save. An empty prompt keeps the catalog's follow-up text.
type FollowUpGenerator interface {
	Generate(ctx context.Context, q model.Question) (string, error)
}

// DelayedFollowUp reveals the catalog follow-up prompt after a fixed latency.
// It is not a network call.
type DelayedFollowUp struct {
	Delay time.Duration
}

// Generate waits for the delay or for ctx to end
func (g DelayedFollowUp) Generate(ctx context.Context, q model.Question) (string, error) {
	timer := time.NewTimer(g.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return q.FollowUpPrompt, nil
	}
}

// Notifier receives store events for the presentation layer
type Notifier interface {
	Notify(sessionID string, n model.Notification)
}

type discardNotifier struct{}

func (discardNotifier) Notify(string, model.Notification) {}
