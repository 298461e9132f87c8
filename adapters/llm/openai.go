// Package llm implements the chat adapter for an OpenAI-compatible
// completion server, including the SSE streaming variant.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/secularbird/assidenter/domain"
	"github.com/secularbird/assidenter/domain/repositories"
)

// Config holds the endpoint and sampling tunables for the chat server.
type Config struct {
	ServerURL    string  `json:"server_url"`
	Model        string  `json:"model"`
	Temperature  float32 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	SystemPrompt string  `json:"system_prompt"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		ServerURL:    "http://localhost:8080",
		Model:        "qwen-0.5b",
		Temperature:  0.7,
		MaxTokens:    512,
		SystemPrompt: "You are a helpful AI assistant. Respond concisely and helpfully.",
	}
}

// OpenAIClient calls an OpenAI-compatible chat completion server and
// owns the conversation history for its dialogue. The registry guard
// serializes access; the client itself holds no locks.
type OpenAIClient struct {
	config  Config
	client  *http.Client
	history []repositories.ChatMessage
	logger  *zap.Logger
}

var _ repositories.LanguageModel = (*OpenAIClient)(nil)

// NewOpenAIClient creates a chat client with an empty history.
func NewOpenAIClient(config Config, logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		config: config,
		client: &http.Client{},
		logger: logger,
	}
}

type chatRequest struct {
	Model       string                     `json:"model"`
	Messages    []repositories.ChatMessage `json:"messages"`
	Temperature float32                    `json:"temperature"`
	MaxTokens   int                        `json:"max_tokens"`
	Stream      bool                       `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// Chat sends one user message and returns the assistant reply. The
// user message and the assistant reply are both committed to history,
// the latter even when the extracted content is empty so that turns in
// history stay aligned one-to-one.
func (o *OpenAIClient) Chat(ctx context.Context, userMessage string) (repositories.LLMResponse, error) {
	o.history = append(o.history, repositories.ChatMessage{
		Role:    repositories.UserRole,
		Content: userMessage,
	})

	resp, err := o.send(ctx, false)
	if err != nil {
		return repositories.LLMResponse{}, err
	}
	defer resp.Body.Close()

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return repositories.LLMResponse{}, domain.ServiceError("chat",
			fmt.Sprintf("invalid response body: %v", err))
	}

	var content string
	var finishReason *string
	if len(body.Choices) > 0 {
		if body.Choices[0].Message.Content != nil {
			content = *body.Choices[0].Message.Content
		}
		finishReason = body.Choices[0].FinishReason
	}

	o.history = append(o.history, repositories.ChatMessage{
		Role:    repositories.AssistantRole,
		Content: content,
	})

	o.logger.Info("Chat completed",
		zap.Int("responseLength", len(content)),
		zap.Int("historyLength", len(o.history)))

	return repositories.LLMResponse{Text: content, FinishReason: finishReason}, nil
}

// ChatStream is the streaming variant of Chat. Deltas are folded into
// an accumulator and forwarded to onDelta as they arrive; the finished
// accumulator becomes the assistant history entry.
func (o *OpenAIClient) ChatStream(ctx context.Context, userMessage string, onDelta func(string)) (repositories.LLMResponse, error) {
	o.history = append(o.history, repositories.ChatMessage{
		Role:    repositories.UserRole,
		Content: userMessage,
	})

	resp, err := o.send(ctx, true)
	if err != nil {
		return repositories.LLMResponse{}, err
	}
	defer resp.Body.Close()

	decoder := &StreamDecoder{OnDelta: onDelta}
	text, err := decoder.Decode(resp.Body)
	if err != nil {
		return repositories.LLMResponse{}, err
	}

	o.history = append(o.history, repositories.ChatMessage{
		Role:    repositories.AssistantRole,
		Content: text,
	})

	o.logger.Info("Streaming chat completed",
		zap.Int("responseLength", len(text)),
		zap.Int("historyLength", len(o.history)))

	finishReason := "stop"
	return repositories.LLMResponse{Text: text, FinishReason: &finishReason}, nil
}

// send posts the chat completion request. The outbound message list is
// the system prompt followed by the full history, which already
// includes the just-appended user message.
func (o *OpenAIClient) send(ctx context.Context, stream bool) (*http.Response, error) {
	messages := make([]repositories.ChatMessage, 0, len(o.history)+1)
	messages = append(messages, repositories.ChatMessage{
		Role:    repositories.SystemRole,
		Content: o.config.SystemPrompt,
	})
	messages = append(messages, o.history...)

	payload, err := json.Marshal(chatRequest{
		Model:       o.config.Model,
		Messages:    messages,
		Temperature: o.config.Temperature,
		MaxTokens:   o.config.MaxTokens,
		Stream:      stream,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := o.config.ServerURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, domain.TransportError("chat request", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, domain.ServiceError("chat",
			fmt.Sprintf("server returned status %s", resp.Status))
	}

	return resp, nil
}

// ClearHistory empties the conversation. Configuration is untouched.
func (o *OpenAIClient) ClearHistory() {
	o.history = nil
	o.logger.Info("Conversation history cleared")
}

// History returns a copy of the conversation history.
func (o *OpenAIClient) History() []repositories.ChatMessage {
	out := make([]repositories.ChatMessage, len(o.history))
	copy(out, o.history)
	return out
}

// SetServerURL replaces the base URL. Effective on the next call.
func (o *OpenAIClient) SetServerURL(url string) {
	o.config.ServerURL = url
}

// SetSystemPrompt replaces the system prompt injected on each call.
func (o *OpenAIClient) SetSystemPrompt(prompt string) {
	o.config.SystemPrompt = prompt
}

// Config returns the current configuration.
func (o *OpenAIClient) Config() Config {
	return o.config
}
