package repositories

import "context"

// TextToSpeech abstracts the remote speech synthesis service.
type TextToSpeech interface {
	// Synthesize converts text into raw audio bytes.
	Synthesize(ctx context.Context, text string) (TTSResult, error)
	// SetServerURL replaces the base URL used for subsequent calls.
	SetServerURL(url string)
}

// TTSResult is the outcome of one synthesis call. Duration is derived
// from the byte count assuming 16-bit mono PCM; it is an approximation,
// not authoritative server metadata.
type TTSResult struct {
	AudioData  []byte  `json:"audio_data"`
	SampleRate uint32  `json:"sample_rate"`
	Duration   float64 `json:"duration"`
}
