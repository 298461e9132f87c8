package models

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManagerEmptyDir(t *testing.T) {
	m := NewManager(t.TempDir())

	if m.Ready() {
		t.Error("Ready() = true with no files present")
	}

	info := m.Info()
	if len(info) != 2 {
		t.Fatalf("Info() returned %d entries, want 2", len(info))
	}
	for _, i := range info {
		if i.Downloaded {
			t.Errorf("%s reported downloaded in empty dir", i.FileName)
		}
		if i.DownloadURL == "" {
			t.Errorf("%s has no download URL", i.FileName)
		}
	}
}

func TestManagerReflectsFiles(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	for _, info := range m.Info() {
		if err := os.WriteFile(filepath.Join(dir, info.FileName), []byte("model bytes"), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", info.FileName, err)
		}
	}

	if !m.Ready() {
		t.Error("Ready() = false with all files present")
	}
	if got := m.DownloadedSize(); got != 2*uint64(len("model bytes")) {
		t.Errorf("DownloadedSize() = %d, want %d", got, 2*len("model bytes"))
	}
}

func TestDownloadURL(t *testing.T) {
	m := NewManager(t.TempDir())

	for _, info := range m.Info() {
		url, ok := m.DownloadURL(info.FileName)
		if !ok || url != info.DownloadURL {
			t.Errorf("DownloadURL(%s) = %q,%v want %q,true", info.FileName, url, ok, info.DownloadURL)
		}
	}

	if _, ok := m.DownloadURL("unknown.bin"); ok {
		t.Error("DownloadURL(unknown) = ok, want not found")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "models")
	m := NewManager(dir)

	if err := m.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("model dir not created: %v", err)
	}
}
