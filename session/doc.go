// Package session holds the client's credential pair and resolved user, and
// orchestrates login, logout and startup session restoration.
//
// A TokenStore persists the access/refresh token pair across runs; pluggable
// backends live in the subpackages session/file (durable local storage, the
// default), session/memory (tests and throwaway processes) and session/redis
// (sessions shared between processes or CI jobs).
//
// The Manager is a small state machine over Unauthenticated, Restoring and
// Authenticated. It exposes the current state and user reactively through
// StateListener registrations, and implements apiclient.TokenSource so the
// HTTP client can pull the current access token on every request:
//
//	store, _ := file.NewStore(filepath.Join(home, ".docuchat"))
//	client := apiclient.New(apiclient.WithBaseURL(baseURL))
//	manager := session.NewManager(client, store)
//	client.SetTokenSource(manager)
//
//	if err := manager.Restore(ctx); err != nil {
//		// storage failure; auth failures during restore are not errors
//	}
//	if !manager.IsAuthenticated() {
//		err = manager.Login(ctx, googleIDToken)
//	}
package session
