package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims for a wizard session token.
// ClientID is stable across page reloads, SessionID is per page load.
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
	EventID   string `json:"eventId"`
	jwt.RegisteredClaims
}

// JoinResponse is returned when a client joins a live event
type JoinResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
	SessionView
}
