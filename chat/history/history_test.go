package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuchat/docuchat-go/chat"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(Options{Path: filepath.Join(t.TempDir(), "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	err := store.Append(ctx, "conv-1",
		chat.Message{Role: chat.RoleUser, Content: "first question", Timestamp: ts},
		chat.Message{Role: chat.RoleAssistant, Content: "first answer", Timestamp: ts},
	)
	require.NoError(t, err)

	err = store.Append(ctx, "conv-1",
		chat.Message{Role: chat.RoleUser, Content: "second question", Timestamp: ts},
	)
	require.NoError(t, err)

	messages, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, chat.RoleUser, messages[0].Role)
	assert.Equal(t, "first question", messages[0].Content)
	assert.Equal(t, "first answer", messages[1].Content)
	assert.Equal(t, "second question", messages[2].Content)
	assert.True(t, messages[0].Timestamp.Equal(ts))
}

func TestLoadUnknownConversation(t *testing.T) {
	store := newTestStore(t)

	messages, err := store.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestConversationsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "conv-a", chat.Message{Role: chat.RoleUser, Content: "a"}))
	require.NoError(t, store.Append(ctx, "conv-b", chat.Message{Role: chat.RoleUser, Content: "b"}))

	a, err := store.Load(ctx, "conv-a")
	require.NoError(t, err)
	require.Len(t, a, 1)
	assert.Equal(t, "a", a[0].Content)

	ids, err := store.Conversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"conv-a", "conv-b"}, ids)
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "conv-1", chat.Message{Role: chat.RoleUser, Content: "q"}))
	require.NoError(t, store.Clear(ctx, "conv-1"))

	messages, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, messages)

	// Appending after clear restarts the sequence without conflicts.
	require.NoError(t, store.Append(ctx, "conv-1", chat.Message{Role: chat.RoleUser, Content: "again"}))
	messages, err = store.Load(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
}

func TestAppendNothing(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Append(context.Background(), "conv-1"))
}
