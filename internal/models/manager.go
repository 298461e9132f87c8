// Package models tracks the on-disk presence of model files required
// for embedded inference. It is pure bookkeeping; downloading and
// inference are the frontend's and the remote services' jobs.
package models

import (
	"fmt"
	"os"
	"path/filepath"
)

// Required model files and their download locations.
const (
	whisperModelFile = "ggml-tiny.bin"
	whisperModelURL  = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-tiny.bin"
	llmModelFile     = "qwen2-0_5b-instruct-q4_0.gguf"
	llmModelURL      = "https://huggingface.co/Qwen/Qwen2-0.5B-Instruct-GGUF/resolve/main/qwen2-0_5b-instruct-q4_0.gguf"
)

// Info describes one required model and whether its file is present.
type Info struct {
	Name        string `json:"name"`
	FileName    string `json:"file_name"`
	DownloadURL string `json:"download_url"`
	SizeBytes   uint64 `json:"size_bytes"`
	Downloaded  bool   `json:"is_downloaded"`
}

// Manager reports model-file state under a single directory.
type Manager struct {
	dir string
}

// NewManager creates a bookkeeper over the given model directory.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Dir returns the model directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// EnsureDir creates the model directory if it does not exist.
func (m *Manager) EnsureDir() error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	return nil
}

// Info lists the required models with their current download state.
func (m *Manager) Info() []Info {
	return []Info{
		{
			Name:        "Whisper Tiny (ASR)",
			FileName:    whisperModelFile,
			DownloadURL: whisperModelURL,
			SizeBytes:   75_000_000,
			Downloaded:  m.Downloaded(whisperModelFile),
		},
		{
			Name:        "Qwen 0.5B Q4 (LLM)",
			FileName:    llmModelFile,
			DownloadURL: llmModelURL,
			SizeBytes:   400_000_000,
			Downloaded:  m.Downloaded(llmModelFile),
		},
	}
}

// Ready reports whether every required model file is present.
func (m *Manager) Ready() bool {
	for _, info := range m.Info() {
		if !info.Downloaded {
			return false
		}
	}
	return true
}

// Downloaded reports whether one model file is present.
func (m *Manager) Downloaded(fileName string) bool {
	_, err := os.Stat(filepath.Join(m.dir, fileName))
	return err == nil
}

// Path returns the full path of a model file.
func (m *Manager) Path(fileName string) string {
	return filepath.Join(m.dir, fileName)
}

// DownloadURL returns the download location for a known model file.
func (m *Manager) DownloadURL(fileName string) (string, bool) {
	switch fileName {
	case whisperModelFile:
		return whisperModelURL, true
	case llmModelFile:
		return llmModelURL, true
	default:
		return "", false
	}
}

// DownloadedSize sums the sizes of the model files present on disk.
func (m *Manager) DownloadedSize() uint64 {
	var total uint64
	for _, info := range m.Info() {
		if !info.Downloaded {
			continue
		}
		if stat, err := os.Stat(m.Path(info.FileName)); err == nil {
			total += uint64(stat.Size())
		}
	}
	return total
}
