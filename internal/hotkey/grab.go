package hotkey

import (
	"runtime/debug"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"
)

// activeGrab is a hotkey whose grabs are installed on the display.
type activeGrab struct {
	code    xproto.Keycode
	mods    uint16
	isMedia bool
	hotKey  HotKey
}

// grabTable owns the installed grabs. It is only touched by the event loop.
type grabTable struct {
	display  Display
	resolver Resolver
	log      zerolog.Logger
	grabs    []activeGrab
}

func newGrabTable(d Display, r Resolver, log zerolog.Logger) *grabTable {
	return &grabTable{display: d, resolver: r, log: log}
}

// install grabs the hotkey and appends it to the table. A hotkey that cannot
// be resolved is dropped and never receives events.
func (t *grabTable) install(h HotKey) {
	if h.IsMedia() {
		t.installMedia(h)
		return
	}

	code, mods := t.resolver.Resolve(h.Combination(), t.display)
	if code == 0 {
		t.log.Warn().Str("hotkey", h.String()).Msg("Hotkey cannot be mapped to a keycode, ignoring it")
		return
	}
	for _, m := range LockVariants(mods) {
		t.display.GrabKey(code, m)
	}
	t.grabs = append(t.grabs, activeGrab{code: code, mods: mods, hotKey: h})
	t.log.Info().Str("hotkey", h.String()).Uint8("keycode", uint8(code)).Uint16("mods", mods).Msg("Registered hotkey")
}

func (t *grabTable) installMedia(h HotKey) {
	sym := t.resolver.ResolveMedia(h.Media())
	code := t.display.KeysymToKeycode(sym)
	if code == 0 {
		t.log.Warn().Str("hotkey", h.String()).Msg("Media key is not on this keyboard, ignoring it")
		return
	}
	t.display.GrabKey(code, 0)
	t.grabs = append(t.grabs, activeGrab{code: code, isMedia: true, hotKey: h})
	t.log.Info().Str("hotkey", h.String()).Uint8("keycode", uint8(code)).Msg("Registered media key")
}

// revokeAll ungrabs every installed hotkey and empties the table.
func (t *grabTable) revokeAll() {
	t.log.Info().Int("count", len(t.grabs)).Msg("Reset hotkeys")
	for _, g := range t.grabs {
		if g.isMedia {
			t.display.UngrabKey(g.code, 0)
			continue
		}
		for _, m := range LockVariants(g.mods) {
			t.display.UngrabKey(g.code, m)
		}
	}
	t.grabs = nil
}

// dispatch invokes the listener of the first grab matching a key press and
// reports whether one matched.
func (t *grabTable) dispatch(code xproto.Keycode, state uint16) bool {
	masked := MatchState(state)
	for _, g := range t.grabs {
		if g.code == code && g.mods == masked {
			t.log.Debug().Str("hotkey", g.hotKey.String()).Msg("Received event for hotkey")
			t.fire(g.hotKey)
			return true
		}
	}
	return false
}

func (t *grabTable) fire(h HotKey) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error().
				Str("hotkey", h.String()).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic in hotkey listener")
		}
	}()
	h.listener(h)
}

func (t *grabTable) len() int { return len(t.grabs) }
