package api

import "time"

// AuthRequest exchanges the shared client secret for a JWT.
type AuthRequest struct {
	ClientID string `json:"client_id,omitempty"`
	Secret   string `json:"secret"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ClientID  string    `json:"client_id"`
}

// ProcessAudioRequest carries one base64-encoded WAV recording.
type ProcessAudioRequest struct {
	Audio string `json:"audio"`
}

// SendMessageRequest carries one text message for the LLM.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// ConfigureServicesRequest updates the three service base URLs.
type ConfigureServicesRequest struct {
	ASRURL string `json:"asr_url"`
	LLMURL string `json:"llm_url"`
	TTSURL string `json:"tts_url"`
}

// ListeningResponse reports the listening flag.
type ListeningResponse struct {
	Listening bool `json:"listening"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
