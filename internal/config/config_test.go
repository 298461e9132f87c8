package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("port = %q, want 8090", cfg.Port)
	}
	if cfg.ASR.ServerURL != "http://localhost:9090" {
		t.Errorf("asr url = %q, want default", cfg.ASR.ServerURL)
	}
	if cfg.LLM.ServerURL != "http://localhost:8080" {
		t.Errorf("llm url = %q, want default", cfg.LLM.ServerURL)
	}
	if cfg.TTS.ServerURL != "http://localhost:5500" {
		t.Errorf("tts url = %q, want default", cfg.TTS.ServerURL)
	}
	if cfg.TTS.SampleRate != 22050 {
		t.Errorf("tts sample rate = %d, want 22050", cfg.TTS.SampleRate)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ASR_URL", "http://asr.example")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("LLM_MAX_TOKENS", "128")
	t.Setenv("TTS_SAMPLE_RATE", "16000")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("port = %q, want 9999", cfg.Port)
	}
	if cfg.ASR.ServerURL != "http://asr.example" {
		t.Errorf("asr url = %q, want env value", cfg.ASR.ServerURL)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", cfg.LLM.Temperature)
	}
	if cfg.LLM.MaxTokens != 128 {
		t.Errorf("max tokens = %d, want 128", cfg.LLM.MaxTokens)
	}
	if cfg.TTS.SampleRate != 16000 {
		t.Errorf("sample rate = %d, want 16000", cfg.TTS.SampleRate)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "not-a-number")
	t.Setenv("TTS_SPEED", "fast")

	cfg := Load()

	if cfg.LLM.MaxTokens != 512 {
		t.Errorf("max tokens = %d, want default 512", cfg.LLM.MaxTokens)
	}
	if cfg.TTS.Speed != 1.0 {
		t.Errorf("speed = %v, want default 1.0", cfg.TTS.Speed)
	}
}
