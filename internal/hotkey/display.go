package hotkey

import (
	"errors"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// ErrDisplayUnavailable is returned when no X11 display can be opened.
var ErrDisplayUnavailable = errors.New("X11 display not available on this system")

// Display is the connection to the window system. Every method is called from
// the event loop goroutine only.
type Display interface {
	// PollEvent returns the next pending event or protocol error without
	// blocking. Both are nil when nothing is pending.
	PollEvent() (xgb.Event, xgb.Error)

	// GrabKey installs a passive grab for code+mods on the root window.
	// Failures are reported later through PollEvent.
	GrabKey(code xproto.Keycode, mods uint16)

	// UngrabKey removes a passive grab installed by GrabKey.
	UngrabKey(code xproto.Keycode, mods uint16)

	// KeysymToKeycode maps a keysym to a keycode of the current keyboard
	// mapping. It returns 0 when no key produces the keysym.
	KeysymToKeycode(sym xproto.Keysym) xproto.Keycode

	// Close releases the connection; the server drops its grabs.
	Close()
}

// Opener opens a Display. name selects the X display; empty means $DISPLAY.
type Opener func(name string) (Display, error)
