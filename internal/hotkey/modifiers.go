package hotkey

import "github.com/BurntSushi/xgb/xproto"

// X11 lock masks that interfere with XGrabKey. CapsLock is LockMask, NumLock
// is usually Mod2 and ScrollLock is usually Mod5.
var lockMasks = [4]uint16{
	xproto.ModMaskLock,
	xproto.ModMask2,
	xproto.ModMask3,
	xproto.ModMask5,
}

// LockVariantCount is the number of grabs installed for one normal hotkey.
const LockVariantCount = 1 << len(lockMasks)

// stateMask keeps the modifiers that take part in matching a key press:
// Shift, Control, Alt (Mod1) and Super (Mod4).
const stateMask uint16 = xproto.ModMaskShift | xproto.ModMaskControl | xproto.ModMask1 | xproto.ModMask4

// lockMask is the union of every lock-type modifier bit.
const lockMask uint16 = xproto.ModMaskLock | xproto.ModMask2 | xproto.ModMask3 | xproto.ModMask5

// LockVariant returns base with the lock masks selected by the low four bits
// of flags added.
func LockVariant(base uint16, flags int) uint16 {
	ret := base
	for bit, mask := range lockMasks {
		if flags&(1<<bit) != 0 {
			ret |= mask
		}
	}
	return ret
}

// LockVariants returns every mask that has to be grabbed so the hotkey still
// triggers whatever the state of CapsLock, NumLock, Mod3 and ScrollLock.
// The first entry is base itself.
func LockVariants(base uint16) [LockVariantCount]uint16 {
	var variants [LockVariantCount]uint16
	for i := range variants {
		variants[i] = LockVariant(base, i)
	}
	return variants
}

// MatchState reduces the modifier state reported by a key event to the bits
// compared against a grab.
func MatchState(state uint16) uint16 {
	return state & stateMask
}
