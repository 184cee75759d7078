package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the signed-in user as reported by the auth collaborator.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// IsZero reports whether no user is set.
func (i Identity) IsZero() bool {
	return i.ID == uuid.Nil && i.Email == ""
}

// Account is a locally stored email + password account.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	LastSignInAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the public identity of the account.
func (a *Account) Identity() Identity {
	return Identity{ID: a.ID, Email: a.Email}
}

// AuthEvent names a session change pushed by the auth collaborator.
type AuthEvent string

const (
	AuthSignedIn       AuthEvent = "signed_in"
	AuthSignedOut      AuthEvent = "signed_out"
	AuthTokenRefreshed AuthEvent = "token_refreshed"
	AuthSessionExpired AuthEvent = "session_expired"
)

// AuthChange is one pushed session update. A nil Identity means no session.
type AuthChange struct {
	Event    AuthEvent
	Identity *Identity
}
