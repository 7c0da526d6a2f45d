package chat_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuchat/docuchat-go/apiclient"
	"github.com/docuchat/docuchat-go/chat"
)

func newConversation(t *testing.T, handler http.HandlerFunc) *chat.Conversation {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := apiclient.New(apiclient.WithBaseURL(server.URL))
	return chat.NewConversation(client)
}

func answerHandler(t *testing.T, lastReq *chat.AskRequest) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rag/ask" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if lastReq != nil {
			json.NewDecoder(r.Body).Decode(lastReq)
		}
		score := 0.87
		json.NewEncoder(w).Encode(chat.AskResponse{
			Answer:    "It is a summary of your notes.",
			ModelUsed: "gpt-4o-mini",
			RetrievedChunks: []chat.Chunk{
				{ID: "chunk-1", DocumentID: "doc-1", ChunkIndex: 0, Content: "notes...", SimilarityScore: &score},
			},
			ProcessingTimeMS: 240,
		})
	}
}

func TestAskAppendsUserAndAssistantMessages(t *testing.T) {
	conv := newConversation(t, answerHandler(t, nil))

	exchange, err := conv.Ask(context.Background(), "What is this about?")
	require.NoError(t, err)
	assert.Equal(t, "It is a summary of your notes.", exchange.Answer)
	assert.Equal(t, "gpt-4o-mini", exchange.ModelUsed)
	require.Len(t, exchange.Chunks, 1)

	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.RoleUser, msgs[0].Role)
	assert.Equal(t, "What is this about?", msgs[0].Content)
	assert.Equal(t, chat.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "It is a summary of your notes.", msgs[1].Content)
}

func TestAskFailureStillAppendsAssistantMessage(t *testing.T) {
	conv := newConversation(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"Vector store unavailable"}`))
	})

	_, err := conv.Ask(context.Background(), "Anything?")
	require.Error(t, err)

	msgs := conv.Messages()
	require.Len(t, msgs, 2, "failure must still append exactly one assistant entry")
	assert.Equal(t, chat.RoleUser, msgs[0].Role)
	assert.Equal(t, chat.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Error: Vector store unavailable", msgs[1].Content)
}

func TestTranscriptLengthAfterNSends(t *testing.T) {
	fail := false
	conv := newConversation(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail":"boom"}`))
			return
		}
		answerHandler(t, nil)(w, r)
	})

	const n = 6
	for i := 0; i < n; i++ {
		fail = i%2 == 1 // alternate success and failure
		conv.Ask(context.Background(), fmt.Sprintf("question %d", i))
	}

	msgs := conv.Messages()
	require.Len(t, msgs, 2*n)
	for i := 0; i < n; i++ {
		assert.Equal(t, chat.RoleUser, msgs[2*i].Role, "message %d", 2*i)
		assert.Equal(t, chat.RoleAssistant, msgs[2*i+1].Role, "message %d", 2*i+1)
	}
}

func TestAskRejectsWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	conv := newConversation(t, func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		answerHandler(t, nil)(w, r)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		conv.Ask(context.Background(), "slow question")
	}()

	<-entered
	assert.True(t, conv.Busy())

	_, err := conv.Ask(context.Background(), "eager question")
	assert.ErrorIs(t, err, chat.ErrBusy)

	close(release)
	wg.Wait()

	// The rejected send left no trace in the transcript.
	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "slow question", msgs[0].Content)
	assert.False(t, conv.Busy())
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	conv := newConversation(t, answerHandler(t, nil))

	_, err := conv.Ask(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, chat.ErrEmptyQuestion)
	assert.Empty(t, conv.Messages())
}

func TestDocumentSelectionScopesRequest(t *testing.T) {
	var lastReq chat.AskRequest
	conv := newConversation(t, answerHandler(t, &lastReq))

	// Empty selection searches all documents: the field is omitted.
	_, err := conv.Ask(context.Background(), "all docs?")
	require.NoError(t, err)
	assert.Nil(t, lastReq.DocumentIDs)
	assert.Equal(t, 5, lastReq.TopK)

	conv.SelectDocuments([]string{"doc-1", "doc-2"})
	_, err = conv.Ask(context.Background(), "selected docs?")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1", "doc-2"}, lastReq.DocumentIDs)
}

func TestEvidenceReplacedWholesale(t *testing.T) {
	count := 0
	conv := newConversation(t, func(w http.ResponseWriter, r *http.Request) {
		count++
		json.NewEncoder(w).Encode(chat.AskResponse{
			Answer: "ok",
			RetrievedChunks: []chat.Chunk{
				{ID: fmt.Sprintf("chunk-%d", count), DocumentID: "doc-1", ChunkIndex: 0},
			},
		})
	})

	conv.Ask(context.Background(), "first")
	first := conv.Evidence()
	require.Len(t, first, 1)
	assert.Equal(t, "chunk-1", first[0].ID)

	conv.Ask(context.Background(), "second")
	second := conv.Evidence()
	require.Len(t, second, 1)
	assert.Equal(t, "chunk-2", second[0].ID, "each answer replaces the evidence set")
}

func TestRestoreSeedsTranscript(t *testing.T) {
	conv := newConversation(t, answerHandler(t, nil))

	conv.Restore([]chat.Message{
		{Role: chat.RoleUser, Content: "earlier question"},
		{Role: chat.RoleAssistant, Content: "earlier answer"},
	})

	_, err := conv.Ask(context.Background(), "new question")
	require.NoError(t, err)
	msgs := conv.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "earlier question", msgs[0].Content)
	assert.Equal(t, "new question", msgs[2].Content)
}
