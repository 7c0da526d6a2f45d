// Package history persists conversation transcripts in a local SQLite
// database, so a client session can resume where it left off.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/docuchat/docuchat-go/chat"
)

// Store implements transcript persistence using SQLite.
type Store struct {
	db        *sql.DB
	tableName string
}

// Options configuration for the SQLite database.
type Options struct {
	Path      string
	TableName string // Default "messages"
}

// NewStore opens (or creates) the transcript database.
func NewStore(opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "messages"
	}

	store := &Store{
		db:        db,
		tableName: tableName,
	}

	if err := store.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			conversation_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			PRIMARY KEY (conversation_id, seq)
		);
	`, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores messages at the end of a conversation's transcript.
func (s *Store) Append(ctx context.Context, conversationID string, messages ...chat.Message) error {
	if len(messages) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	row := tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(seq), -1) + 1 FROM %s WHERE conversation_id = ?", s.tableName),
		conversationID)
	if err := row.Scan(&next); err != nil {
		return fmt.Errorf("read next sequence: %w", err)
	}

	insert := fmt.Sprintf(
		"INSERT INTO %s (conversation_id, seq, role, content, timestamp) VALUES (?, ?, ?, ?, ?)",
		s.tableName)
	for i, msg := range messages {
		ts := msg.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		if _, err := tx.ExecContext(ctx, insert, conversationID, next+i, string(msg.Role), msg.Content, ts); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Load retrieves a conversation's transcript in order.
func (s *Store) Load(ctx context.Context, conversationID string) ([]chat.Message, error) {
	query := fmt.Sprintf(
		"SELECT role, content, timestamp FROM %s WHERE conversation_id = ? ORDER BY seq",
		s.tableName)
	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []chat.Message
	for rows.Next() {
		var role, content string
		var ts time.Time
		if err := rows.Scan(&role, &content, &ts); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, chat.Message{
			Role:      chat.Role(role),
			Content:   content,
			Timestamp: ts,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// Clear removes a conversation's transcript.
func (s *Store) Clear(ctx context.Context, conversationID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE conversation_id = ?", s.tableName)
	if _, err := s.db.ExecContext(ctx, query, conversationID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	return nil
}

// Conversations lists the stored conversation IDs.
func (s *Store) Conversations(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT conversation_id FROM %s ORDER BY conversation_id", s.tableName)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan conversation id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
