package hotkey

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestLockVariants(t *testing.T) {
	base := uint16(xproto.ModMaskControl | xproto.ModMask1)
	variants := LockVariants(base)

	if variants[0] != base {
		t.Errorf("variant 0 = 0x%x, want base 0x%x", variants[0], base)
	}

	seen := make(map[uint16]bool)
	for i, v := range variants {
		if seen[v] {
			t.Errorf("variant %d (0x%x) is a duplicate", i, v)
		}
		seen[v] = true
		if MatchState(v) != base {
			t.Errorf("MatchState(variant %d = 0x%x) = 0x%x, want 0x%x", i, v, MatchState(v), base)
		}
		if v&^lockMask != base {
			t.Errorf("variant %d changes non-lock bits: 0x%x", i, v)
		}
	}
	if len(seen) != LockVariantCount {
		t.Errorf("got %d distinct variants, want %d", len(seen), LockVariantCount)
	}
}

func TestLockVariant(t *testing.T) {
	tests := []struct {
		flags int
		want  uint16
	}{
		{0, xproto.ModMaskShift},
		{1, xproto.ModMaskShift | xproto.ModMaskLock},
		{2, xproto.ModMaskShift | xproto.ModMask2},
		{4, xproto.ModMaskShift | xproto.ModMask3},
		{8, xproto.ModMaskShift | xproto.ModMask5},
		{15, xproto.ModMaskShift | lockMask},
	}
	for _, tt := range tests {
		if got := LockVariant(xproto.ModMaskShift, tt.flags); got != tt.want {
			t.Errorf("LockVariant(shift, %d) = 0x%x, want 0x%x", tt.flags, got, tt.want)
		}
	}
}

func TestMatchState(t *testing.T) {
	tests := []struct {
		name  string
		state uint16
		want  uint16
	}{
		{"plain", 0, 0},
		{"caps and num lock only", xproto.ModMaskLock | xproto.ModMask2, 0},
		{"ctrl with scroll lock", xproto.ModMaskControl | xproto.ModMask5, xproto.ModMaskControl},
		{"super shift with mod3", xproto.ModMask4 | xproto.ModMaskShift | xproto.ModMask3, xproto.ModMask4 | xproto.ModMaskShift},
		{"button bits ignored", xproto.ModMask1 | xproto.KeyButMaskButton1, xproto.ModMask1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchState(tt.state); got != tt.want {
				t.Errorf("MatchState(0x%x) = 0x%x, want 0x%x", tt.state, got, tt.want)
			}
		})
	}
}
