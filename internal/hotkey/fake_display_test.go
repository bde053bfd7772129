package hotkey

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"
)

type grabKey struct {
	code xproto.Keycode
	mods uint16
}

type fakeItem struct {
	ev   xgb.Event
	xerr xgb.Error
}

// fakeDisplay records grabs and replays injected events. Every method is safe
// to call from the test goroutine while the loop is running.
type fakeDisplay struct {
	mu      sync.Mutex
	pending []fakeItem
	grabs   map[grabKey]bool
	keysyms map[xproto.Keysym]xproto.Keycode
	closed  int
}

func newFakeDisplay(keysyms map[xproto.Keysym]xproto.Keycode) *fakeDisplay {
	return &fakeDisplay{
		grabs:   make(map[grabKey]bool),
		keysyms: keysyms,
	}
}

func (f *fakeDisplay) open(string) (Display, error) { return f, nil }

func (f *fakeDisplay) PollEvent() (xgb.Event, xgb.Error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		return nil, nil
	}
	it := f.pending[0]
	f.pending = f.pending[1:]
	return it.ev, it.xerr
}

func (f *fakeDisplay) GrabKey(code xproto.Keycode, mods uint16) {
	f.mu.Lock()
	f.grabs[grabKey{code, mods}] = true
	f.mu.Unlock()
}

func (f *fakeDisplay) UngrabKey(code xproto.Keycode, mods uint16) {
	f.mu.Lock()
	delete(f.grabs, grabKey{code, mods})
	f.mu.Unlock()
}

func (f *fakeDisplay) KeysymToKeycode(sym xproto.Keysym) xproto.Keycode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keysyms[sym]
}

func (f *fakeDisplay) Close() {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
}

func (f *fakeDisplay) press(code xproto.Keycode, state uint16) {
	f.mu.Lock()
	f.pending = append(f.pending, fakeItem{ev: xproto.KeyPressEvent{Detail: code, State: state}})
	f.mu.Unlock()
}

func (f *fakeDisplay) injectError(xerr xgb.Error) {
	f.mu.Lock()
	f.pending = append(f.pending, fakeItem{xerr: xerr})
	f.mu.Unlock()
}

func (f *fakeDisplay) grabCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.grabs)
}

func (f *fakeDisplay) hasGrab(code xproto.Keycode, mods uint16) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.grabs[grabKey{code, mods}]
}

func (f *fakeDisplay) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeDisplay) drained() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending) == 0
}

// fakeXError is a protocol error as xgb would deliver it.
type fakeXError struct {
	seq uint16
	bad uint32
	msg string
}

func (e fakeXError) SequenceId() uint16 { return e.seq }
func (e fakeXError) BadId() uint32      { return e.bad }
func (e fakeXError) Error() string {
	return fmt.Sprintf("%s {Sequence: %d, BadValue: %d}", e.msg, e.seq, e.bad)
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func eventually(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		case <-time.After(2 * time.Millisecond):
		}
	}
}
