// Package config gathers all environment-driven settings. Values come
// from the process environment; main loads a .env file first via
// godotenv so local development needs no exported variables.
package config

import (
	"os"
	"strconv"

	"github.com/secularbird/assidenter/adapters/asr"
	"github.com/secularbird/assidenter/adapters/llm"
	"github.com/secularbird/assidenter/adapters/tts"
)

// Config holds every runtime setting for the server.
type Config struct {
	Port         string
	JWTSecret    string
	ClientSecret string
	ModelDir     string

	ASR asr.Config
	LLM llm.Config
	TTS tts.Config
}

// Load builds a Config from the environment, falling back to the
// defaults the remote services ship with.
func Load() Config {
	asrConfig := asr.DefaultConfig()
	asrConfig.ServerURL = getEnv("ASR_URL", asrConfig.ServerURL)
	asrConfig.Language = getEnv("ASR_LANGUAGE", asrConfig.Language)
	asrConfig.Model = getEnv("ASR_MODEL", asrConfig.Model)

	llmConfig := llm.DefaultConfig()
	llmConfig.ServerURL = getEnv("LLM_URL", llmConfig.ServerURL)
	llmConfig.Model = getEnv("LLM_MODEL", llmConfig.Model)
	llmConfig.Temperature = getEnvFloat32("LLM_TEMPERATURE", llmConfig.Temperature)
	llmConfig.MaxTokens = getEnvInt("LLM_MAX_TOKENS", llmConfig.MaxTokens)
	llmConfig.SystemPrompt = getEnv("LLM_SYSTEM_PROMPT", llmConfig.SystemPrompt)

	ttsConfig := tts.DefaultConfig()
	ttsConfig.ServerURL = getEnv("TTS_URL", ttsConfig.ServerURL)
	ttsConfig.Voice = getEnv("TTS_VOICE", ttsConfig.Voice)
	ttsConfig.Speed = getEnvFloat32("TTS_SPEED", ttsConfig.Speed)
	ttsConfig.SampleRate = getEnvUint32("TTS_SAMPLE_RATE", ttsConfig.SampleRate)

	return Config{
		Port:         getEnv("PORT", "8090"),
		JWTSecret:    getEnv("JWT_SECRET", "development-secret"),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		ModelDir:     getEnv("MODEL_DIR", "models"),
		ASR:          asrConfig,
		LLM:          llmConfig,
		TTS:          ttsConfig,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat32(key string, fallback float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return fallback
}

func getEnvUint32(key string, fallback uint32) uint32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseUint(value, 10, 32); err == nil {
			return uint32(parsed)
		}
	}
	return fallback
}
