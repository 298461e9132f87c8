// Package asr implements the speech-to-text adapter for a
// WhisperLiveKit-compatible transcription server.
package asr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/secularbird/assidenter/domain"
	"github.com/secularbird/assidenter/domain/repositories"
)

// Config holds the endpoint and tunables for the transcription server.
type Config struct {
	ServerURL string `json:"server_url"`
	Language  string `json:"language"`
	Model     string `json:"model"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		ServerURL: "http://localhost:9090",
		Language:  "auto",
		Model:     "whisper-large-v3",
	}
}

// WhisperClient calls a WhisperLiveKit-compatible server over HTTP.
// Access is serialized by the registry guard; the client itself holds
// no locks.
type WhisperClient struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*WhisperClient)(nil)

// NewWhisperClient creates a transcription client with the given config.
func NewWhisperClient(config Config, logger *zap.Logger) *WhisperClient {
	return &WhisperClient{
		config: config,
		client: &http.Client{},
		logger: logger,
	}
}

type transcribeRequest struct {
	Audio    string `json:"audio"`
	Language string `json:"language"`
	Model    string `json:"model"`
	Format   string `json:"format"`
}

// Optional fields stay nil when the server omits them; only a
// malformed envelope is an error.
type transcribeResponse struct {
	Text     *string  `json:"text"`
	Language *string  `json:"language"`
	Duration *float64 `json:"duration"`
}

// Transcribe converts WAV audio to text via POST {base}/transcribe.
func (w *WhisperClient) Transcribe(ctx context.Context, wavData []byte) (repositories.TranscriptionResult, error) {
	payload, err := json.Marshal(transcribeRequest{
		Audio:    base64.StdEncoding.EncodeToString(wavData),
		Language: w.config.Language,
		Model:    w.config.Model,
		Format:   "wav",
	})
	if err != nil {
		return repositories.TranscriptionResult{}, fmt.Errorf("failed to marshal transcription request: %w", err)
	}

	url := w.config.ServerURL + "/transcribe"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return repositories.TranscriptionResult{}, fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return repositories.TranscriptionResult{}, domain.TransportError("transcription request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return repositories.TranscriptionResult{}, domain.ServiceError("transcription",
			fmt.Sprintf("server returned status %s", resp.Status))
	}

	var body transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return repositories.TranscriptionResult{}, domain.ServiceError("transcription",
			fmt.Sprintf("invalid response body: %v", err))
	}

	result := repositories.TranscriptionResult{
		Language: body.Language,
		Duration: body.Duration,
		IsFinal:  true,
	}
	if body.Text != nil {
		result.Text = *body.Text
	}

	w.logger.Info("Transcription completed",
		zap.String("text", result.Text),
		zap.Int("audioSize", len(wavData)))

	return result, nil
}

// SetServerURL replaces the base URL. Effective on the next call.
func (w *WhisperClient) SetServerURL(url string) {
	w.config.ServerURL = url
}

// Config returns the current configuration.
func (w *WhisperClient) Config() Config {
	return w.config
}
