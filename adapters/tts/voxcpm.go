// Package tts implements the speech synthesis adapter for a
// VoxCPM-compatible server.
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/secularbird/assidenter/domain"
	"github.com/secularbird/assidenter/domain/repositories"
)

// Config holds the endpoint and voice tunables for the synthesis server.
type Config struct {
	ServerURL  string  `json:"server_url"`
	Voice      string  `json:"voice"`
	Speed      float32 `json:"speed"`
	SampleRate uint32  `json:"sample_rate"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		ServerURL:  "http://localhost:5500",
		Voice:      "default",
		Speed:      1.0,
		SampleRate: 22050,
	}
}

// VoxCPMClient calls a VoxCPM-compatible synthesis server over HTTP.
// Access is serialized by the registry guard; the client itself holds
// no locks.
type VoxCPMClient struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

var _ repositories.TextToSpeech = (*VoxCPMClient)(nil)

// NewVoxCPMClient creates a synthesis client with the given config.
func NewVoxCPMClient(config Config, logger *zap.Logger) *VoxCPMClient {
	return &VoxCPMClient{
		config: config,
		client: &http.Client{},
		logger: logger,
	}
}

type synthesizeRequest struct {
	Text       string  `json:"text"`
	Voice      string  `json:"voice"`
	Speed      float32 `json:"speed"`
	SampleRate uint32  `json:"sample_rate"`
	Format     string  `json:"format"`
}

type synthesizeResponse struct {
	Audio *string `json:"audio"`
}

// Synthesize converts text to audio via POST {base}/tts. The server
// answers either JSON with a base64 audio field or raw audio bytes,
// selected by the content-type response header.
func (v *VoxCPMClient) Synthesize(ctx context.Context, text string) (repositories.TTSResult, error) {
	payload, err := json.Marshal(synthesizeRequest{
		Text:       text,
		Voice:      v.config.Voice,
		Speed:      v.config.Speed,
		SampleRate: v.config.SampleRate,
		Format:     "wav",
	})
	if err != nil {
		return repositories.TTSResult{}, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	url := v.config.ServerURL + "/tts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return repositories.TTSResult{}, fmt.Errorf("failed to create synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return repositories.TTSResult{}, domain.TransportError("synthesis request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return repositories.TTSResult{}, domain.ServiceError("synthesis",
			fmt.Sprintf("server returned status %s", resp.Status))
	}

	var audioData []byte
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var body synthesizeResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return repositories.TTSResult{}, domain.ServiceError("synthesis",
				fmt.Sprintf("invalid response body: %v", err))
		}
		if body.Audio == nil {
			return repositories.TTSResult{}, domain.ServiceError("synthesis", "missing audio data in response")
		}
		audioData, err = base64.StdEncoding.DecodeString(*body.Audio)
		if err != nil {
			return repositories.TTSResult{}, domain.DecodeError("synthesis audio", err)
		}
	} else {
		audioData, err = io.ReadAll(resp.Body)
		if err != nil {
			return repositories.TTSResult{}, domain.TransportError("synthesis body", err)
		}
	}

	// Approximate duration assuming 16-bit mono PCM; the server sends
	// no authoritative value.
	duration := float64(len(audioData)) / (float64(v.config.SampleRate) * 2)

	v.logger.Info("Synthesis completed",
		zap.Int("audioSize", len(audioData)),
		zap.Float64("duration", duration))

	return repositories.TTSResult{
		AudioData:  audioData,
		SampleRate: v.config.SampleRate,
		Duration:   duration,
	}, nil
}

// SetServerURL replaces the base URL. Effective on the next call.
func (v *VoxCPMClient) SetServerURL(url string) {
	v.config.ServerURL = url
}

// SetVoice replaces the voice id.
func (v *VoxCPMClient) SetVoice(voice string) {
	v.config.Voice = voice
}

// Config returns the current configuration.
func (v *VoxCPMClient) Config() Config {
	return v.config
}
