package hotkey

// Combination is a key plus the modifiers that must be held with it.
type Combination struct {
	Modifiers []Modifier
	Key       Key
}

// NewCombination builds a Combination from a modifier list and a key.
func NewCombination(key Key, mods ...Modifier) Combination {
	return Combination{
		Modifiers: append([]Modifier(nil), mods...),
		Key:       key,
	}
}

// Mask returns the modifiers as a native modifier mask.
func (c Combination) Mask() uint16 {
	var mask uint16
	for _, m := range c.Modifiers {
		mask |= uint16(m)
	}
	return mask
}

// String returns the canonical form, e.g. "ctrl+alt+k".
func (c Combination) String() string {
	return formatCombination(c)
}
