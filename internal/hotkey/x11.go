package hotkey

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// X11Display is the Display backed by a real X server connection.
type X11Display struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	minKeycode xproto.Keycode
	keymap     *xproto.GetKeyboardMappingReply

	log         zerolog.Logger
	loadMapping func() error
}

var _ Display = (*X11Display)(nil)

// OpenDisplay connects to the named X display ("" means $DISPLAY) and loads
// its keyboard mapping.
func OpenDisplay(name string) (*X11Display, error) {
	xu, err := xgbutil.NewConnDisplay(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDisplayUnavailable, err)
	}
	// Initialize keybind module (required for modifier lookups)
	keybind.Initialize(xu)

	d := &X11Display{
		xu:   xu,
		root: xu.RootWin(),
		log:  log.Logger.With().Str("component", "x11").Logger(),
	}
	d.loadMapping = d.loadKeyboardMapping
	if err := d.loadKeyboardMapping(); err != nil {
		xu.Conn().Close()
		return nil, err
	}
	return d, nil
}

// Open adapts OpenDisplay to the Opener signature.
func Open(name string) (Display, error) {
	d, err := OpenDisplay(name)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *X11Display) loadKeyboardMapping() error {
	setup := xproto.Setup(d.xu.Conn())
	min, max := setup.MinKeycode, setup.MaxKeycode

	km, err := xproto.GetKeyboardMapping(d.xu.Conn(), min, byte(max-min+1)).Reply()
	if err != nil {
		return fmt.Errorf("getting keyboard mapping: %w", err)
	}
	d.minKeycode = min
	d.keymap = km
	return nil
}

// PollEvent returns the next queued event. Keyboard mapping changes are
// applied before the event is handed back so later resolutions use the new
// layout.
func (d *X11Display) PollEvent() (xgb.Event, xgb.Error) {
	ev, xerr := d.xu.Conn().PollForEvent()
	if mn, ok := ev.(xproto.MappingNotifyEvent); ok && mn.Request == xproto.MappingKeyboard {
		d.refreshMapping()
	}
	return ev, xerr
}

// refreshMapping reloads the keyboard mapping. On failure the previous
// mapping stays in place.
func (d *X11Display) refreshMapping() {
	if err := d.loadMapping(); err != nil {
		d.log.Warn().Err(err).Msg("Failed to reload keyboard mapping, keeping the previous one")
	}
}

// GrabKey grabs code+mods on the root window with owner events and
// asynchronous pointer and keyboard modes.
func (d *X11Display) GrabKey(code xproto.Keycode, mods uint16) {
	xproto.GrabKey(d.xu.Conn(), true, d.root, mods, code,
		xproto.GrabModeAsync, xproto.GrabModeAsync)
}

func (d *X11Display) UngrabKey(code xproto.Keycode, mods uint16) {
	xproto.UngrabKey(d.xu.Conn(), code, d.root, mods)
}

// KeysymToKeycode scans the keyboard mapping for the first keycode producing
// sym in any column.
func (d *X11Display) KeysymToKeycode(sym xproto.Keysym) xproto.Keycode {
	if d.keymap == nil || sym == 0 {
		return 0
	}
	per := int(d.keymap.KeysymsPerKeycode)
	if per == 0 {
		return 0
	}
	for i := 0; i*per < len(d.keymap.Keysyms); i++ {
		for col := 0; col < per && i*per+col < len(d.keymap.Keysyms); col++ {
			if d.keymap.Keysyms[i*per+col] == sym {
				return d.minKeycode + xproto.Keycode(i)
			}
		}
	}
	return 0
}

func (d *X11Display) Close() {
	d.xu.Conn().Close()
}

// ProbeGrab grabs every lock variant of code+mods with checked requests and
// releases them again. It reports the first grab the server refused, which
// usually means another client owns the combination.
func (d *X11Display) ProbeGrab(code xproto.Keycode, mods uint16) error {
	var grabbed []uint16
	defer func() {
		for _, m := range grabbed {
			xproto.UngrabKeyChecked(d.xu.Conn(), code, d.root, m).Check()
		}
	}()
	for _, m := range LockVariants(mods) {
		if err := xproto.GrabKeyChecked(d.xu.Conn(), true, d.root, m, code,
			xproto.GrabModeAsync, xproto.GrabModeAsync).Check(); err != nil {
			return fmt.Errorf("grabbing key %d (mod=0x%x): %w", code, m, err)
		}
		grabbed = append(grabbed, m)
	}
	return nil
}

// LockModifiers reports which modifier masks the NumLock and ScrollLock keys
// are mapped to. A zero mask means the key is not bound to a modifier.
func (d *X11Display) LockModifiers() map[string]uint16 {
	mods := make(map[string]uint16)
	for _, name := range []string{"Num_Lock", "Scroll_Lock"} {
		mods[name] = 0
		for _, keycode := range keybind.StrToKeycodes(d.xu, name) {
			if mask := keybind.ModGet(d.xu, keycode); mask != 0 {
				mods[name] = mask
				break
			}
		}
	}
	return mods
}
