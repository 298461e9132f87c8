package repositories

import "context"

// LanguageModel abstracts the remote chat completion service. The
// implementation owns the conversation history; callers serialize
// access through the registry's guard.
type LanguageModel interface {
	// Chat sends one user message and returns the assistant reply. Both
	// messages are committed to history regardless of what happens in
	// later pipeline stages.
	Chat(ctx context.Context, userMessage string) (LLMResponse, error)
	// ChatStream is the streaming variant. onDelta receives each text
	// delta as it arrives; the returned response carries the full
	// accumulated text.
	ChatStream(ctx context.Context, userMessage string, onDelta func(string)) (LLMResponse, error)
	// ClearHistory empties the conversation history.
	ClearHistory()
	// History returns a copy of the conversation history.
	History() []ChatMessage
	// SetServerURL replaces the base URL used for subsequent calls.
	SetServerURL(url string)
}

// LLMResponse is the outcome of one chat completion call.
type LLMResponse struct {
	Text         string  `json:"text"`
	FinishReason *string `json:"finish_reason,omitempty"`
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role defines the type of message sender.
type Role string

const (
	SystemRole    Role = "system"
	UserRole      Role = "user"
	AssistantRole Role = "assistant"
)
