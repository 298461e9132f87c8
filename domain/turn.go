package domain

// Turn statuses reported to the boundary layer.
const (
	TurnStatusComplete = "complete"
	TurnStatusEmpty    = "empty"
)

// Event names emitted through the Notifier. Names and payload types are
// a contract with the frontend.
const (
	EventListeningStarted = "listening-started"
	EventListeningStopped = "listening-stopped"
	EventProcessingStatus = "processing-status"
	EventTranscription    = "transcription"
	EventLLMResponse      = "llm-response"
	EventTTSAudio         = "tts-audio"
)

// Processing status strings for the EventProcessingStatus payload.
const (
	StatusTranscribing = "Transcribing..."
	StatusThinking     = "Thinking..."
	StatusSynthesizing = "Generating audio..."
)

// TurnResult is the structured outcome of one voice or text turn.
type TurnResult struct {
	Status        string  `json:"status"`
	Transcription *string `json:"transcription"`
	Response      *string `json:"response"`
	AudioReady    bool    `json:"audio_ready"`
}

// ServiceStatus reports service readiness to the frontend. Remote
// services are always considered ready; connectivity is checked on use.
type ServiceStatus struct {
	Mode        string `json:"mode"`
	ASRReady    bool   `json:"asr_ready"`
	LLMReady    bool   `json:"llm_ready"`
	TTSReady    bool   `json:"tts_ready"`
	ModelsReady bool   `json:"models_ready"`
}

// Notifier is the outbound notification sink for turn lifecycle events.
// Implementations must not block the caller on slow consumers.
type Notifier interface {
	Emit(event string, payload any)
}

// NopNotifier discards all events.
type NopNotifier struct{}

// Emit implements Notifier.
func (NopNotifier) Emit(event string, payload any) {}
