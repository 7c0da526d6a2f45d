// Package file provides a file-backed token store, the durable local storage
// used by default: tokens survive client restarts within the same user
// profile but are removed on logout or failed restoration.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docuchat/docuchat-go/session"
)

const sessionFileName = "session.json"

// Store implements session.TokenStore as a JSON file inside a directory.
type Store struct {
	path string
}

var _ session.TokenStore = (*Store)(nil)

// NewStore creates a file-backed token store rooted at dir, creating the
// directory if missing.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, sessionFileName)}, nil
}

// Save writes the token pair. The write goes through a temporary file and a
// rename, so readers never observe a partial pair.
func (s *Store) Save(ctx context.Context, tokens *session.Tokens) error {
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Load reads the token pair from disk.
func (s *Store) Load(ctx context.Context) (*session.Tokens, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, session.ErrNoSession
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var tokens session.Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil, session.ErrNoSession
	}
	return &tokens, nil
}

// Clear removes the session file. Both tokens disappear together.
func (s *Store) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
