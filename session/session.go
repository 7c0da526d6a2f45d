package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession is returned by TokenStore.Load when no tokens are persisted.
var ErrNoSession = errors.New("no stored session")

// Tokens is the credential pair issued by the auth service.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// TokenStore persists the credential pair across client runs.
//
// Save and Clear are atomic with respect to readers: a state with exactly one
// of the two tokens present is not reachable through this interface.
type TokenStore interface {
	// Save stores both tokens, replacing any previous pair.
	Save(ctx context.Context, tokens *Tokens) error

	// Load retrieves the stored pair, or ErrNoSession if absent.
	Load(ctx context.Context) (*Tokens, error)

	// Clear removes both tokens. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// User is the resolved identity record returned by GET /api/auth/me.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  *string    `json:"full_name"`
	Picture   *string    `json:"picture,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// DisplayName returns the user's full name, falling back to the email address.
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Email
}
