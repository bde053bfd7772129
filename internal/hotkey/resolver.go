package hotkey

import "github.com/BurntSushi/xgb/xproto"

// Resolver turns an abstract key identity into native values.
type Resolver interface {
	// Resolve returns the keycode and base modifier mask for c. A zero
	// keycode means the combination cannot be produced on this keyboard.
	Resolve(c Combination, d Display) (xproto.Keycode, uint16)

	// ResolveMedia returns the native symbol of a media action.
	ResolveMedia(m MediaKey) xproto.Keysym
}

// KeysymResolver treats a Combination's key as an X11 keysym and looks it up
// in the display's current keyboard mapping.
type KeysymResolver struct{}

func (KeysymResolver) Resolve(c Combination, d Display) (xproto.Keycode, uint16) {
	code := d.KeysymToKeycode(xproto.Keysym(c.Key))
	if code == 0 {
		return 0, 0
	}
	// Lock bits are added per variant by the grab manager.
	return code, c.Mask() &^ lockMask
}

func (KeysymResolver) ResolveMedia(m MediaKey) xproto.Keysym {
	return m.Keysym()
}
