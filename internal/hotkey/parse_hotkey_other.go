//go:build !linux

package hotkey

import "fmt"

// ParseCombination is not implemented on this OS.
// Passive key grabs are only supported on X11.
func ParseCombination(hotkeyStr string) (Combination, error) {
	return Combination{}, fmt.Errorf("hotkeys are not supported on this OS")
}

func formatCombination(c Combination) string {
	return fmt.Sprintf("mods=0x%04x key=0x%04x", c.Mask(), uint32(c.Key))
}
