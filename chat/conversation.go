package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/docuchat/docuchat-go/apiclient"
	"github.com/docuchat/docuchat-go/log"
)

const defaultTopK = 5

// askFallbackMessage mirrors what the backend failure turns into when no
// structured detail is available.
const askFallbackMessage = "Failed to get answer. Please try again."

var (
	// ErrBusy is returned while a previous question is still in flight.
	// There is no queueing and no cancellation of the in-flight call.
	ErrBusy = errors.New("a question is already in flight")

	// ErrEmptyQuestion is returned for blank input.
	ErrEmptyQuestion = errors.New("question is empty")
)

// Conversation turns a sequence of questions into request/response exchanges
// against the retrieval endpoint, accumulating an append-only transcript and
// the most recent exchange's evidence set.
//
// One question is in flight at a time; concurrent sends fail with ErrBusy.
// Every accepted question appends exactly one user message and, eventually,
// exactly one assistant message, whether the call succeeds or fails: on
// failure the assistant entry carries a formatted error line. The optimistic
// user append is never rolled back.
type Conversation struct {
	client *apiclient.Client
	logger log.Logger
	topK   int
	model  string

	mu       sync.Mutex
	busy     bool
	messages []Message
	selected []string
	evidence []Chunk
	last     *Exchange
}

// ConversationOption configures a Conversation.
type ConversationOption func(*Conversation)

// WithTopK sets how many chunks to retrieve per question (default 5).
func WithTopK(topK int) ConversationOption {
	return func(c *Conversation) {
		c.topK = topK
	}
}

// WithModel pins the LLM used for answers; empty lets the backend choose.
func WithModel(model string) ConversationOption {
	return func(c *Conversation) {
		c.model = model
	}
}

// WithLogger sets the conversation's logger.
func WithLogger(logger log.Logger) ConversationOption {
	return func(c *Conversation) {
		c.logger = logger
	}
}

// NewConversation creates an empty conversation over the given client.
func NewConversation(client *apiclient.Client, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		client: client,
		logger: log.Default(),
		topK:   defaultTopK,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectDocuments scopes subsequent questions to the given document IDs.
// An empty selection searches all completed documents.
func (c *Conversation) SelectDocuments(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = append([]string(nil), ids...)
}

// Selected returns the current document selection.
func (c *Conversation) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.selected...)
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]Message, len(c.messages))
	copy(msgs, c.messages)
	return msgs
}

// Evidence returns the chunks from the most recent exchange.
func (c *Conversation) Evidence() []Chunk {
	c.mu.Lock()
	defer c.mu.Unlock()
	chunks := make([]Chunk, len(c.evidence))
	copy(chunks, c.evidence)
	return chunks
}

// LastExchange returns the most recent successful exchange, or nil.
func (c *Conversation) LastExchange() *Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Busy reports whether a question is currently in flight.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Restore seeds the transcript from previously persisted messages. It only
// makes sense on an empty conversation, before the first Ask.
func (c *Conversation) Restore(messages []Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append([]Message(nil), messages...)
}

// Ask sends one question to the retrieval endpoint. The user message is
// appended immediately; the assistant message is appended when the call
// resolves, carrying either the answer or a formatted error line. On success
// the returned Exchange holds the answer and its evidence; on failure Ask
// returns the underlying error after the transcript was updated.
func (c *Conversation) Ask(ctx context.Context, question string) (*Exchange, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.busy = true
	c.messages = append(c.messages, Message{
		Role:      RoleUser,
		Content:   question,
		Timestamp: time.Now(),
	})
	req := AskRequest{
		Question: question,
		TopK:     c.topK,
		LLMModel: c.model,
	}
	if len(c.selected) > 0 {
		req.DocumentIDs = append([]string(nil), c.selected...)
	}
	c.mu.Unlock()

	started := time.Now()
	var resp AskResponse
	err := c.client.Post(ctx, "/api/rag/ask", req, &resp)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if err != nil {
		c.logger.Warn("ask failed: %v", err)
		c.messages = append(c.messages, Message{
			Role:      RoleAssistant,
			Content:   "Error: " + apiclient.FormatError(err, askFallbackMessage),
			Timestamp: time.Now(),
		})
		return nil, err
	}

	c.messages = append(c.messages, Message{
		Role:      RoleAssistant,
		Content:   resp.Answer,
		Timestamp: time.Now(),
	})
	c.evidence = resp.RetrievedChunks
	c.last = &Exchange{
		Question:  question,
		Answer:    resp.Answer,
		ModelUsed: resp.ModelUsed,
		Chunks:    resp.RetrievedChunks,
		Elapsed:   time.Since(started),
	}

	c.logger.Debug("answered in %s using %s (%d chunks)", c.last.Elapsed, resp.ModelUsed, len(resp.RetrievedChunks))
	return c.last, nil
}
