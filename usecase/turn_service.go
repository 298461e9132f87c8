package usecase

import (
	"context"
	"encoding/base64"
	"strings"

	"go.uber.org/zap"

	"github.com/secularbird/assidenter/domain"
)

// ProcessAudio runs a full voice turn: transcribe, chat, synthesize.
// Each stage acquires its client's guard only for the duration of its
// own network call. An empty or whitespace-only transcription
// short-circuits the turn before the LLM stage. A stage failure aborts
// the rest of the turn; history mutations already committed by the LLM
// stage are not rolled back.
func (r *Registry) ProcessAudio(ctx context.Context, audioBase64 string) (domain.TurnResult, error) {
	audioData, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return domain.TurnResult{}, domain.DecodeError("audio payload", err)
	}

	r.notifier.Emit(domain.EventProcessingStatus, domain.StatusTranscribing)

	r.asrMu.Lock()
	transcription, err := r.asr.Transcribe(ctx, audioData)
	r.asrMu.Unlock()
	if err != nil {
		return domain.TurnResult{}, err
	}

	transcribedText := transcription.Text
	r.logger.Info("Transcription", zap.String("text", transcribedText))
	r.notifier.Emit(domain.EventTranscription, transcribedText)

	if strings.TrimSpace(transcribedText) == "" {
		return domain.TurnResult{
			Status:        domain.TurnStatusEmpty,
			Transcription: &transcribedText,
		}, nil
	}

	return r.respond(ctx, transcribedText)
}

// SendTextMessage runs a text turn: identical to a voice turn minus the
// ASR stage. The returned transcription echoes the input.
func (r *Registry) SendTextMessage(ctx context.Context, message string) (domain.TurnResult, error) {
	return r.respond(ctx, message)
}

// respond drives the LLM and TTS stages shared by both turn modes.
func (r *Registry) respond(ctx context.Context, userText string) (domain.TurnResult, error) {
	r.notifier.Emit(domain.EventProcessingStatus, domain.StatusThinking)

	r.llmMu.Lock()
	llmResponse, err := r.llm.Chat(ctx, userText)
	r.llmMu.Unlock()
	if err != nil {
		return domain.TurnResult{}, err
	}

	responseText := llmResponse.Text
	r.logger.Info("LLM response", zap.String("text", responseText))
	r.notifier.Emit(domain.EventLLMResponse, responseText)

	r.notifier.Emit(domain.EventProcessingStatus, domain.StatusSynthesizing)

	r.ttsMu.Lock()
	ttsResult, err := r.tts.Synthesize(ctx, responseText)
	r.ttsMu.Unlock()
	if err != nil {
		return domain.TurnResult{}, err
	}

	r.notifier.Emit(domain.EventTTSAudio, base64.StdEncoding.EncodeToString(ttsResult.AudioData))

	return domain.TurnResult{
		Status:        domain.TurnStatusComplete,
		Transcription: &userText,
		Response:      &responseText,
		AudioReady:    true,
	}, nil
}
