//go:build linux

package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/TanaroSch/keymaster/internal/config"
	"github.com/TanaroSch/keymaster/internal/hotkey"
)

type registration struct {
	key      string
	listener hotkey.Listener
}

type fakeProvider struct {
	mu       sync.Mutex
	resets   int
	regs     []registration
	resetErr error
}

func (f *fakeProvider) Start() error { return nil }
func (f *fakeProvider) Stop()        {}

func (f *fakeProvider) Register(c hotkey.Combination, l hotkey.Listener) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs = append(f.regs, registration{c.String(), l})
	return nil
}

func (f *fakeProvider) RegisterMedia(m hotkey.MediaKey, l hotkey.Listener) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs = append(f.regs, registration{"media:" + m.String(), l})
	return nil
}

func (f *fakeProvider) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resets++
	f.regs = nil
	return nil
}

func (f *fakeProvider) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.regs {
		out = append(out, r.key)
	}
	return out
}

func newTestApp(t *testing.T, cfg *config.Config) (*Application, *fakeProvider, *fakeClipboard) {
	t.Helper()
	fp := &fakeProvider{}
	fc := &fakeClipboard{}
	a := &Application{
		log:     zerolog.Nop(),
		config:  cfg,
		hotkeys: fp,
		actions: &actionRunner{
			clipboard: fc,
			notify:    func(string, string) {},
			start:     func(string, ...string) error { return nil },
			log:       zerolog.Nop(),
		},
	}
	return a, fp, fc
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

const twoBindings = `
bindings:
  - name: Copy greeting
    enabled: true
    hotkey: ctrl+alt+g
    action: {type: copy, text: hello}
  - name: Mute
    enabled: true
    media: mute
    action: {type: notify, text: muted}
  - name: Off
    enabled: false
    hotkey: ctrl+alt+o
    action: {type: notify}
`

func TestApplyBindingsRegistersEnabled(t *testing.T) {
	cfg, err := config.Parse([]byte(twoBindings))
	if err != nil {
		t.Fatal(err)
	}
	a, fp, fc := newTestApp(t, cfg)

	n, err := a.applyBindings(cfg)
	if err != nil {
		t.Fatalf("applyBindings: %v", err)
	}
	if n != 2 || fp.resets != 1 {
		t.Fatalf("registered %d with %d resets, want 2 and 1", n, fp.resets)
	}
	keys := fp.keys()
	if keys[0] != "ctrl+alt+g" || keys[1] != "media:mute" {
		t.Errorf("registered %v", keys)
	}

	fp.regs[0].listener(hotkey.HotKey{})
	deadline := time.After(time.Second)
	for {
		fc.mu.Lock()
		done := len(fc.copied) == 1 && fc.copied[0] == "hello"
		fc.mu.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("copy action did not run")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestApplyBindingsResetError(t *testing.T) {
	cfg, _ := config.Parse([]byte(twoBindings))
	a, fp, _ := newTestApp(t, cfg)
	fp.resetErr = hotkey.ErrStopped

	if _, err := a.applyBindings(cfg); !errors.Is(err, hotkey.ErrStopped) {
		t.Errorf("applyBindings = %v, want ErrStopped", err)
	}
	if len(fp.keys()) != 0 {
		t.Error("registered bindings after a failed reset")
	}
}

func TestReloadAppliesNewBindings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, twoBindings)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	a, fp, _ := newTestApp(t, cfg)
	a.applyBindings(cfg)

	writeConfig(t, path, `
bindings:
  - name: Term
    enabled: true
    hotkey: super+enter
    action: {type: exec, command: xterm}
`)
	a.onReloadConfig()

	if keys := fp.keys(); len(keys) != 1 || keys[0] != "super+enter" {
		t.Errorf("after reload registered %v, want [super+enter]", keys)
	}
	if a.config.Bindings[0].Name != "Term" {
		t.Error("config not replaced")
	}
}

func TestReloadKeepsBindingsOnInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, twoBindings)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	a, fp, _ := newTestApp(t, cfg)
	a.applyBindings(cfg)

	writeConfig(t, path, `
bindings:
  - name: Broken
    enabled: true
    hotkey: ctrl+nosuchkey
    action: {type: notify}
`)
	a.onReloadConfig()

	if keys := fp.keys(); len(keys) != 2 {
		t.Errorf("invalid reload changed bindings: %v", keys)
	}
	if fp.resets != 1 {
		t.Errorf("provider reset %d times, want 1", fp.resets)
	}
	if a.config != cfg {
		t.Error("invalid config replaced the current one")
	}
}

func TestProtocolErrorNotifiesOncePerRound(t *testing.T) {
	a, _, _ := newTestApp(t, &config.Config{})

	a.onProtocolError(xproto.ValueError{})
	if a.conflictNotified.Load() {
		t.Error("non-access error counted as a conflict")
	}
	a.onProtocolError(xproto.AccessError{})
	a.onProtocolError(xproto.AccessError{})
	if !a.conflictNotified.Load() {
		t.Error("access error not recorded")
	}

	a.applyBindings(&config.Config{})
	if a.conflictNotified.Load() {
		t.Error("conflict flag not cleared by a new registration round")
	}
}

func TestToggleBindingAppliesWithoutWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, twoBindings)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	a, fp, _ := newTestApp(t, cfg)
	a.applyBindings(cfg)

	a.onToggleBinding(0)

	if keys := fp.keys(); len(keys) != 1 || keys[0] != "media:mute" {
		t.Errorf("after toggle registered %v, want [media:mute]", keys)
	}
	if fp.resets != 2 {
		t.Errorf("provider reset %d times, want 2", fp.resets)
	}
	if !cfg.Bindings[0].Enabled {
		t.Error("toggle edited the previous config in place")
	}
	saved, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Bindings[0].Enabled {
		t.Error("toggle not saved to disk")
	}
}

func TestToggleBindingLeavesReloadToWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, twoBindings)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	a, fp, _ := newTestApp(t, cfg)
	a.applyBindings(cfg)
	a.watching.Store(true)

	a.onToggleBinding(2)

	if fp.resets != 1 || len(fp.keys()) != 2 {
		t.Errorf("toggle re-registered while watched: resets=%d keys=%v", fp.resets, fp.keys())
	}
	if !a.config.Bindings[2].Enabled {
		t.Error("running config not updated")
	}
	saved, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !saved.Bindings[2].Enabled {
		t.Error("toggle not saved to disk")
	}
}

func TestToggleBindingOutOfRange(t *testing.T) {
	cfg, _ := config.Parse([]byte(twoBindings))
	a, fp, _ := newTestApp(t, cfg)

	a.onToggleBinding(7)

	if fp.resets != 0 || a.config != cfg {
		t.Error("out-of-range toggle changed state")
	}
}
