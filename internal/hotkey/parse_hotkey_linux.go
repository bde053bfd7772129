//go:build linux

package hotkey

import (
	"fmt"
	"strings"
)

// modifierOrder is the order modifiers appear in a canonical combination.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "ctrl"},
	{Mod1, "alt"},
	{ModShift, "shift"},
	{Mod4, "super"},
}

// ParseCombination converts a string hotkey combination (e.g., "ctrl+alt+v")
// into a Combination.
//
// Linux implementation notes (X11):
// - Alt is typically Mod1
// - Super/Win is typically Mod4
func ParseCombination(hotkeyStr string) (Combination, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(hotkeyStr)), "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	keyStr := parts[len(parts)-1]
	if keyStr == "" {
		return Combination{}, fmt.Errorf("no key in hotkey %q", hotkeyStr)
	}
	key, exists := lookupKey(keyStr)
	if !exists {
		return Combination{}, fmt.Errorf("unsupported key: %s", keyStr)
	}

	var modifiers []Modifier
	seen := make(map[Modifier]bool)
	for _, part := range parts[:len(parts)-1] {
		var mod Modifier
		switch part {
		case "ctrl", "control":
			mod = ModCtrl
		case "alt", "mod1":
			mod = Mod1
		case "shift":
			mod = ModShift
		case "super", "win", "cmd", "mod4":
			mod = Mod4
		default:
			return Combination{}, fmt.Errorf("unsupported modifier: %s", part)
		}
		if !seen[mod] {
			seen[mod] = true
			modifiers = append(modifiers, mod)
		}
	}

	return Combination{Modifiers: modifiers, Key: key}, nil
}

func formatCombination(c Combination) string {
	mask := c.Mask()
	var parts []string
	for _, m := range modifierOrder {
		if mask&uint16(m.mod) != 0 {
			parts = append(parts, m.name)
		}
	}
	if name, ok := keyNames[c.Key]; ok {
		parts = append(parts, name)
	} else {
		parts = append(parts, fmt.Sprintf("0x%04x", uint32(c.Key)))
	}
	return strings.Join(parts, "+")
}
