package clipboard

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type memStore struct {
	text    string
	writes  []string
	readErr error
}

func (s *memStore) ReadAll() (string, error) { return s.text, s.readErr }
func (s *memStore) WriteAll(text string) error {
	s.text = text
	s.writes = append(s.writes, text)
	return nil
}

func newTestManager(store *memStore, paste func() error) *Manager {
	m := newManager(store, paste, zerolog.Nop())
	m.sleep = func(time.Duration) {}
	return m
}

func TestCopyAndRestore(t *testing.T) {
	store := &memStore{text: "original"}
	m := newTestManager(store, nil)

	if err := m.Copy("snippet"); err != nil {
		t.Fatal(err)
	}
	if store.text != "snippet" {
		t.Fatalf("clipboard = %q, want snippet", store.text)
	}
	if err := m.Copy("second"); err != nil {
		t.Fatal(err)
	}

	if !m.RestoreOriginalClipboard() {
		t.Fatal("nothing restored")
	}
	if store.text != "original" {
		t.Errorf("restored %q, want the content before the first copy", store.text)
	}
	if m.RestoreOriginalClipboard() {
		t.Error("second restore reported success")
	}
}

func TestPasteRestoresClipboard(t *testing.T) {
	store := &memStore{text: "original"}
	var seen string
	m := newTestManager(store, func() error {
		seen = store.text
		return nil
	})

	if err := m.Paste("Best regards"); err != nil {
		t.Fatal(err)
	}
	if seen != "Best regards" {
		t.Errorf("paste saw %q, want the pasted text", seen)
	}
	if store.text != "original" {
		t.Errorf("clipboard after paste = %q, want original", store.text)
	}
}

func TestPasteFailureLeavesText(t *testing.T) {
	store := &memStore{text: "original"}
	pasteErr := errors.New("no xdotool")
	m := newTestManager(store, func() error { return pasteErr })

	if err := m.Paste("hello"); !errors.Is(err, pasteErr) {
		t.Fatalf("Paste = %v, want paste error", err)
	}
	if store.text != "hello" {
		t.Errorf("clipboard = %q, want the text left for a manual paste", store.text)
	}
	if !m.RestoreOriginalClipboard() || store.text != "original" {
		t.Error("original content not restorable after failed paste")
	}
}

func TestCopyWithUnreadableClipboard(t *testing.T) {
	store := &memStore{readErr: errors.New("no selection owner")}
	m := newTestManager(store, nil)

	if err := m.Copy("x"); err != nil {
		t.Fatal(err)
	}
	if m.RestoreOriginalClipboard() {
		t.Error("restored content that was never read")
	}
}
