// Package hotkey registers global X11 hotkeys, including hardware media keys,
// that fire regardless of which window has the input focus.
//
// A single loop goroutine owns the X connection. Register and Reset only
// hand requests to that loop; listeners are invoked on it.
package hotkey

// Listener is called on the event loop goroutine when its hotkey is pressed.
// It must not call Provider.Reset or Provider.Stop, and should hand long work
// off to another goroutine.
type Listener func(HotKey)

// HotKey is either a key combination or a media key, plus its listener.
type HotKey struct {
	combination Combination
	media       MediaKey
	isMedia     bool
	listener    Listener
}

func newHotKey(c Combination, l Listener) HotKey {
	return HotKey{combination: c, listener: l}
}

func newMediaHotKey(m MediaKey, l Listener) HotKey {
	return HotKey{media: m, isMedia: true, listener: l}
}

// IsMedia reports whether the hotkey is bound to a media key.
func (h HotKey) IsMedia() bool { return h.isMedia }

// Combination returns the key combination of a normal hotkey.
func (h HotKey) Combination() Combination { return h.combination }

// Media returns the media action of a media hotkey.
func (h HotKey) Media() MediaKey { return h.media }

func (h HotKey) String() string {
	if h.isMedia {
		return "media:" + h.media.String()
	}
	return h.combination.String()
}
