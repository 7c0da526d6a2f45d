package chat

import (
	"time"
)

// Role identifies the author of a transcript message.
type Role string

const (
	// RoleUser marks a question typed by the user.
	RoleUser Role = "user"

	// RoleAssistant marks an answer (or error line) from the platform.
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation transcript. Messages are never
// mutated or reordered after creation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Chunk is a document excerpt returned as retrieval evidence.
// SimilarityScore is present only on retrieval results.
type Chunk struct {
	ID              string         `json:"id"`
	DocumentID      string         `json:"document_id"`
	ChunkIndex      int            `json:"chunk_index"`
	Content         string         `json:"content"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	SimilarityScore *float64       `json:"similarity_score,omitempty"`
}

// AskRequest is the retrieval request body. An absent DocumentIDs searches
// all of the user's completed documents.
type AskRequest struct {
	Question    string   `json:"question"`
	DocumentIDs []string `json:"document_ids,omitempty"`
	TopK        int      `json:"top_k,omitempty"`
	LLMModel    string   `json:"llm_model,omitempty"`
}

// AskResponse is the retrieval-augmented answer.
type AskResponse struct {
	Answer           string  `json:"answer"`
	RetrievedChunks  []Chunk `json:"retrieved_chunks"`
	ModelUsed        string  `json:"model_used"`
	ProcessingTimeMS float64 `json:"processing_time_ms"`
}

// Exchange pairs one question with its answer and the evidence that justified
// it. Each new question replaces the previous exchange wholesale.
type Exchange struct {
	Question  string
	Answer    string
	ModelUsed string
	Chunks    []Chunk
	Elapsed   time.Duration
}
