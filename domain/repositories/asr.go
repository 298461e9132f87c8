package repositories

import "context"

// SpeechToText abstracts the remote transcription service.
type SpeechToText interface {
	// Transcribe converts WAV audio data to text. The result text is the
	// empty string when no speech was detected; that is not an error.
	Transcribe(ctx context.Context, wavData []byte) (TranscriptionResult, error)
	// SetServerURL replaces the base URL used for subsequent calls.
	SetServerURL(url string)
}

// TranscriptionResult is the outcome of one transcription call.
// Language and Duration are optional server-provided metadata.
type TranscriptionResult struct {
	Text     string   `json:"text"`
	Language *string  `json:"language,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
	IsFinal  bool     `json:"is_final"`
}
