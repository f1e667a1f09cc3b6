package domain

import "time"

// Identity is the authenticated caller of a session-gated request.
type Identity struct {
	// Username is the directory uid and is what quotes, votes and keys record.
	Username string

	// Subject is the identity provider's stable subject identifier.
	Subject string
}

// Session records a completed single sign-on login.
type Session struct {
	ID        string
	Subject   string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity returns the caller the session authenticates.
func (s *Session) Identity() Identity {
	return Identity{Username: s.Username, Subject: s.Subject}
}
