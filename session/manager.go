package session

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/docuchat/docuchat-go/apiclient"
	"github.com/docuchat/docuchat-go/log"
)

// State is the authentication state of the client session.
type State int

const (
	// StateUnauthenticated means no valid session exists.
	StateUnauthenticated State = iota

	// StateRestoring means a startup restoration attempt is in flight.
	StateRestoring

	// StateAuthenticated means a validated session with a resolved user exists.
	StateAuthenticated
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// StateListener is notified on every session state transition.
type StateListener interface {
	OnSessionState(state State, user *User)
}

// StateListenerFunc is a function adapter for StateListener.
type StateListenerFunc func(state State, user *User)

// OnSessionState implements the StateListener interface.
func (f StateListenerFunc) OnSessionState(state State, user *User) {
	f(state, user)
}

// Manager orchestrates login, logout and startup session restoration over the
// API client and a TokenStore. Construct exactly one per process and pass it
// by reference to consumers; it is safe for concurrent use.
//
// Manager implements apiclient.TokenSource, so it can be wired as the
// client's credential source:
//
//	client := apiclient.New(apiclient.WithBaseURL(baseURL))
//	manager := session.NewManager(client, store)
//	client.SetTokenSource(manager)
//	manager.Restore(ctx)
type Manager struct {
	client *apiclient.Client
	store  TokenStore
	logger log.Logger

	mu        sync.RWMutex
	state     State
	user      *User
	tokens    *Tokens
	listeners []StateListener
}

var _ apiclient.TokenSource = (*Manager)(nil)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger log.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager. The initial state is StateRestoring;
// call Restore to resolve it.
func NewManager(client *apiclient.Client, store TokenStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		client: client,
		store:  store,
		logger: log.Default(),
		state:  StateRestoring,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AccessToken implements apiclient.TokenSource.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tokens == nil {
		return ""
	}
	return m.tokens.AccessToken
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CurrentUser returns the resolved user, or nil outside StateAuthenticated.
func (m *Manager) CurrentUser() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// IsAuthenticated reports whether a validated session exists.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// AddListener registers a listener for state transitions.
func (m *Manager) AddListener(listener StateListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// RemoveListener unregisters a previously added listener. Listeners are
// matched by identity; for StateListenerFunc adapters that is the underlying
// function pointer.
func (m *Manager) RemoveListener(listener StateListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.listeners {
		if sameListener(l, listener) {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			break
		}
	}
}

// sameListener compares listener identities without panicking on
// uncomparable dynamic types such as StateListenerFunc.
func sameListener(a, b StateListener) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	va := reflect.ValueOf(a)
	if va.Kind() == reflect.Func {
		return va.Pointer() == reflect.ValueOf(b).Pointer()
	}
	if !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}

// Restore resolves the startup session state. Without stored tokens it
// transitions directly to StateUnauthenticated with zero network calls. With
// stored tokens it validates them via an identity fetch, attempting a single
// token refresh on 401; any final failure silently clears the local session
// (the user is simply not logged in).
func (m *Manager) Restore(ctx context.Context) error {
	m.transition(StateRestoring, nil)

	tokens, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			m.transition(StateUnauthenticated, nil)
			return nil
		}
		m.logger.Warn("failed to read stored session: %v", err)
		m.clearSession(ctx)
		return err
	}

	m.setTokens(tokens)

	user, err := m.fetchUser(ctx)
	if err != nil && isAuthError(err) && tokens.RefreshToken != "" {
		if rerr := m.RefreshTokens(ctx); rerr == nil {
			user, err = m.fetchUser(ctx)
		}
	}
	if err != nil {
		m.logger.Info("session restore failed, clearing local session: %v", err)
		m.clearSession(ctx)
		return nil
	}

	m.transition(StateAuthenticated, user)
	m.logger.Info("session restored for %s", user.Email)
	return nil
}

// Login exchanges an external identity credential (a Google ID token) for
// platform tokens, persists them and resolves the current user. On failure
// the state remains StateUnauthenticated and the error is returned so the
// caller can display it.
func (m *Manager) Login(ctx context.Context, googleToken string) error {
	var tokens Tokens
	req := struct {
		Token string `json:"token"`
	}{Token: googleToken}

	if err := m.client.Post(ctx, "/api/auth/google/token", req, &tokens); err != nil {
		m.transition(StateUnauthenticated, nil)
		return err
	}

	if err := m.store.Save(ctx, &tokens); err != nil {
		m.transition(StateUnauthenticated, nil)
		return err
	}
	m.setTokens(&tokens)

	user, err := m.fetchUser(ctx)
	if err != nil {
		m.clearSession(ctx)
		return err
	}

	m.transition(StateAuthenticated, user)
	m.logger.Info("logged in as %s", user.Email)
	return nil
}

// Logout best-effort calls the backend invalidation endpoint and
// unconditionally tears down the local session. A failed or slow server round
// trip never blocks local teardown.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.client.Post(ctx, "/api/auth/logout", nil, nil); err != nil {
		m.logger.Warn("logout request failed: %v", err)
	}
	m.clearSession(ctx)
}

// Refresh re-fetches the current user with the existing access token, used to
// detect out-of-band invalidation. Failure behaves like failed restoration:
// the local session is cleared and the state becomes StateUnauthenticated.
func (m *Manager) Refresh(ctx context.Context) error {
	user, err := m.fetchUser(ctx)
	if err != nil {
		m.logger.Info("session refresh failed, clearing local session: %v", err)
		m.clearSession(ctx)
		return err
	}
	m.transition(StateAuthenticated, user)
	return nil
}

// RefreshTokens exchanges the stored refresh token for a new token pair and
// persists it. Returns ErrNoSession when no refresh token is held.
func (m *Manager) RefreshTokens(ctx context.Context) error {
	m.mu.RLock()
	var refreshToken string
	if m.tokens != nil {
		refreshToken = m.tokens.RefreshToken
	}
	m.mu.RUnlock()

	if refreshToken == "" {
		return ErrNoSession
	}

	var tokens Tokens
	req := struct {
		RefreshToken string `json:"refresh_token"`
	}{RefreshToken: refreshToken}

	if err := m.client.Post(ctx, "/api/auth/refresh", req, &tokens); err != nil {
		return err
	}

	if err := m.store.Save(ctx, &tokens); err != nil {
		return err
	}
	m.setTokens(&tokens)
	return nil
}

func (m *Manager) fetchUser(ctx context.Context) (*User, error) {
	var user User
	if err := m.client.Get(ctx, "/api/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *Manager) setTokens(tokens *Tokens) {
	m.mu.Lock()
	m.tokens = tokens
	m.mu.Unlock()
}

func (m *Manager) clearSession(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear stored session: %v", err)
	}
	m.setTokens(nil)
	m.transition(StateUnauthenticated, nil)
}

// transition updates the state and notifies listeners outside the lock, in
// registration order.
func (m *Manager) transition(state State, user *User) {
	m.mu.Lock()
	m.state = state
	m.user = user
	listeners := make([]StateListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, listener := range listeners {
		listener.OnSessionState(state, user)
	}
}

func isAuthError(err error) bool {
	var apiErr *apiclient.APIError
	return errors.As(err, &apiErr) && apiErr.IsAuthError()
}
