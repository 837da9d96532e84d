package service

import "liveexperience/internal/wizard"

// Broadcaster pushes wizard notifications to connected clients (avoids import cycle)
type Broadcaster interface {
	wizard.Notifier
	DisconnectSession(sessionID string)
}
