package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 10)
	w, err := Watch(path, 50*time.Millisecond, zerolog.Nop(), func() { changed <- struct{}{} })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("log_level: debug\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}
	select {
	case <-changed:
		t.Error("burst of writes produced more than one callback")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	changed := make(chan struct{}, 1)
	w, err := Watch(path, 10*time.Millisecond, zerolog.Nop(), func() { changed <- struct{}{} })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
		t.Error("callback fired for an unrelated file")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := Watch(filepath.Join(t.TempDir(), "config.yaml"), 0, zerolog.Nop(), func() {})
	if err != nil {
		t.Fatal(err)
	}
	w.Close()
	w.Close()
}
