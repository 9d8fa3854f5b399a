package domain

import "time"

// AccountRegisteredEvent represents the payload for accounts.account.registered messages.
type AccountRegisteredEvent struct {
	EventID      string
	AccountID    string
	Nickname     string
	Email        string
	Role         string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// AccountLockedEvent represents the payload for accounts.account.locked messages.
type AccountLockedEvent struct {
	EventID        string
	AccountID      string
	LockedAt       time.Time
	FailedAttempts int
	Automatic      bool
	Metadata       map[string]any
}

// PasswordResetEvent represents the payload for accounts.account.password.reset messages.
type PasswordResetEvent struct {
	EventID   string
	AccountID string
	ResetAt   time.Time
	Metadata  map[string]any
}

// EmailVerifiedEvent represents the payload for accounts.account.email.verified messages.
type EmailVerifiedEvent struct {
	EventID    string
	AccountID  string
	Email      string
	VerifiedAt time.Time
	Metadata   map[string]any
}
