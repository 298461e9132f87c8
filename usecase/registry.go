// Package usecase holds the service registry and the turn
// orchestration built on top of it.
package usecase

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/secularbird/assidenter/domain"
	"github.com/secularbird/assidenter/domain/repositories"
)

// ModelBookkeeper reports whether required model files are present.
// Remote-only deployments pass nil and are always considered ready.
type ModelBookkeeper interface {
	Ready() bool
}

// Registry owns one instance of each service client behind independent
// guards plus the process-wide listening flag. Guards are scoped to a
// single pipeline stage, never to a whole turn, so unrelated commands
// can interleave between stages of an in-flight turn.
type Registry struct {
	asrMu sync.Mutex
	asr   repositories.SpeechToText

	llmMu sync.Mutex
	llm   repositories.LanguageModel

	ttsMu sync.Mutex
	tts   repositories.TextToSpeech

	listening atomic.Bool

	notifier domain.Notifier
	models   ModelBookkeeper
	logger   *zap.Logger
}

// NewRegistry wires the three clients, the notification sink and the
// optional model bookkeeper into a registry. The listening flag starts
// false.
func NewRegistry(
	asr repositories.SpeechToText,
	llm repositories.LanguageModel,
	tts repositories.TextToSpeech,
	notifier domain.Notifier,
	models ModelBookkeeper,
	logger *zap.Logger,
) *Registry {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &Registry{
		asr:      asr,
		llm:      llm,
		tts:      tts,
		notifier: notifier,
		models:   models,
		logger:   logger,
	}
}

// StartListening transitions the listening flag to true. A second start
// while active is an error, not a no-op.
func (r *Registry) StartListening() error {
	if !r.listening.CompareAndSwap(false, true) {
		return domain.StateError("already listening")
	}
	r.notifier.Emit(domain.EventListeningStarted, nil)
	r.logger.Info("Listening started")
	return nil
}

// StopListening clears the listening flag. Never fails.
func (r *Registry) StopListening() {
	r.listening.Store(false)
	r.notifier.Emit(domain.EventListeningStopped, nil)
	r.logger.Info("Listening stopped")
}

// IsListening reports whether voice input is currently accepted.
func (r *Registry) IsListening() bool {
	return r.listening.Load()
}

// ConfigureServices updates each client's base URL in guard order
// ASR, LLM, TTS. Field assignment cannot fail, so neither can this.
func (r *Registry) ConfigureServices(asrURL, llmURL, ttsURL string) {
	r.asrMu.Lock()
	r.asr.SetServerURL(asrURL)
	r.asrMu.Unlock()

	r.llmMu.Lock()
	r.llm.SetServerURL(llmURL)
	r.llmMu.Unlock()

	r.ttsMu.Lock()
	r.tts.SetServerURL(ttsURL)
	r.ttsMu.Unlock()

	r.logger.Info("Services configured",
		zap.String("asrURL", asrURL),
		zap.String("llmURL", llmURL),
		zap.String("ttsURL", ttsURL))
}

// ClearConversation empties the LLM conversation history.
func (r *Registry) ClearConversation() {
	r.llmMu.Lock()
	r.llm.ClearHistory()
	r.llmMu.Unlock()
	r.logger.Info("Conversation cleared")
}

// ConversationHistory returns a copy of the current history.
func (r *Registry) ConversationHistory() []repositories.ChatMessage {
	r.llmMu.Lock()
	defer r.llmMu.Unlock()
	return r.llm.History()
}

// Status reports service readiness. Remote services are always ready;
// connectivity is checked on use.
func (r *Registry) Status() domain.ServiceStatus {
	modelsReady := true
	if r.models != nil {
		modelsReady = r.models.Ready()
	}
	return domain.ServiceStatus{
		Mode:        "remote",
		ASRReady:    true,
		LLMReady:    true,
		TTSReady:    true,
		ModelsReady: modelsReady,
	}
}
