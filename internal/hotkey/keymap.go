//go:build linux

package hotkey

// KeyMap provides mapping between string representations and Key
// values. On Linux a Key is an X11 keysym.
var KeyMap = map[string]Key{
	// Letters
	"a": KeyA,
	"b": KeyB,
	"c": KeyC,
	"d": KeyD,
	"e": KeyE,
	"f": KeyF,
	"g": KeyG,
	"h": KeyH,
	"i": KeyI,
	"j": KeyJ,
	"k": KeyK,
	"l": KeyL,
	"m": KeyM,
	"n": KeyN,
	"o": KeyO,
	"p": KeyP,
	"q": KeyQ,
	"r": KeyR,
	"s": KeyS,
	"t": KeyT,
	"u": KeyU,
	"v": KeyV,
	"w": KeyW,
	"x": KeyX,
	"y": KeyY,
	"z": KeyZ,

	// Numbers
	"0": Key0,
	"1": Key1,
	"2": Key2,
	"3": Key3,
	"4": Key4,
	"5": Key5,
	"6": Key6,
	"7": Key7,
	"8": Key8,
	"9": Key9,

	// Function keys
	"f1":  KeyF1,
	"f2":  KeyF2,
	"f3":  KeyF3,
	"f4":  KeyF4,
	"f5":  KeyF5,
	"f6":  KeyF6,
	"f7":  KeyF7,
	"f8":  KeyF8,
	"f9":  KeyF9,
	"f10": KeyF10,
	"f11": KeyF11,
	"f12": KeyF12,

	// Special keys
	"space":  KeySpace,
	"tab":    KeyTab,
	"enter":  KeyReturn,
	"escape": KeyEscape,
	"delete": KeyDelete,
	"left":   KeyLeft,
	"right":  KeyRight,
	"up":     KeyUp,
	"down":   KeyDown,
}

// keyAliases maps alternative spellings onto a KeyMap entry.
var keyAliases = map[string]string{
	"return": "enter",
	"esc":    "escape",
	"del":    "delete",
}

var keyNames = func() map[Key]string {
	names := make(map[Key]string, len(KeyMap))
	for name, key := range KeyMap {
		names[key] = name
	}
	return names
}()

// lookupKey resolves a lower-case key name, following aliases.
func lookupKey(name string) (Key, bool) {
	if alias, ok := keyAliases[name]; ok {
		name = alias
	}
	key, ok := KeyMap[name]
	return key, ok
}
