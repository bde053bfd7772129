package clipboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
)

// Delays around a simulated paste. The target application reads the
// clipboard asynchronously after the key event.
const (
	pasteSettleDelay   = 400 * time.Millisecond
	restoreSettleDelay = 300 * time.Millisecond
)

// Store is the system clipboard.
type Store interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemStore struct{}

func (systemStore) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemStore) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Manager performs the copy and paste actions of bindings. Calls are
// serialized so concurrent pastes do not interleave their clipboard swaps.
type Manager struct {
	mu    sync.Mutex
	store Store
	paste func() error
	log   zerolog.Logger
	sleep func(time.Duration)

	previousClipboard string
}

// NewManager returns a Manager using the system clipboard and the platform
// paste simulation.
func NewManager(log zerolog.Logger) *Manager {
	return newManager(systemStore{}, simulatePlatformPaste, log)
}

func newManager(store Store, paste func() error, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		paste: paste,
		log:   log.With().Str("component", "clipboard").Logger(),
		sleep: time.Sleep,
	}
}

// Copy replaces the clipboard content. The previous content can be restored
// with RestoreOriginalClipboard.
func (m *Manager) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remember()
	if err := m.store.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	m.log.Debug().Int("bytes", len(text)).Msg("Clipboard updated")
	return nil
}

// Paste types text into the focused window by placing it on the clipboard,
// simulating the paste shortcut and then putting the old content back.
func (m *Manager) Paste(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remember()
	if err := m.store.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}

	m.sleep(pasteSettleDelay / 4)
	pasteErr := m.paste()
	if pasteErr != nil {
		m.log.Warn().Err(pasteErr).Msg("Paste simulation failed, text left on clipboard")
		return pasteErr
	}
	m.sleep(pasteSettleDelay)

	m.restoreLocked(restoreSettleDelay)
	return nil
}

// RestoreOriginalClipboard reverts to the content saved by the last Copy.
// It reports whether anything was restored.
func (m *Manager) RestoreOriginalClipboard() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restoreLocked(0)
}

// remember saves the current clipboard unless an earlier copy is still
// waiting to be restored.
func (m *Manager) remember() {
	if m.previousClipboard != "" {
		return
	}
	prev, err := m.store.ReadAll()
	if err != nil {
		m.log.Warn().Err(err).Msg("Failed to read clipboard")
		return
	}
	m.previousClipboard = prev
}

func (m *Manager) restoreLocked(delay time.Duration) bool {
	if m.previousClipboard == "" {
		return false
	}
	if delay > 0 {
		m.sleep(delay)
	}
	if err := m.store.WriteAll(m.previousClipboard); err != nil {
		m.log.Warn().Err(err).Msg("Failed to restore clipboard")
		return false
	}
	m.previousClipboard = ""
	m.log.Debug().Msg("Original clipboard restored")
	return true
}
