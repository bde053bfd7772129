package hotkey

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
)

// MediaKey is a hardware key bound to a fixed multimedia function.
type MediaKey int

const (
	MediaNextTrack MediaKey = iota
	MediaPlayPause
	MediaPrevTrack
	MediaStop
	MediaMute
	MediaVolumeUp
	MediaVolumeDown
)

// XF86 keysyms from XF86keysym.h.
const (
	xf86AudioLowerVolume xproto.Keysym = 0x1008ff11
	xf86AudioMute        xproto.Keysym = 0x1008ff12
	xf86AudioRaiseVolume xproto.Keysym = 0x1008ff13
	xf86AudioPlay        xproto.Keysym = 0x1008ff14
	xf86AudioStop        xproto.Keysym = 0x1008ff15
	xf86AudioPrev        xproto.Keysym = 0x1008ff16
	xf86AudioNext        xproto.Keysym = 0x1008ff17
)

var mediaKeys = []struct {
	key    MediaKey
	name   string
	keysym xproto.Keysym
}{
	{MediaNextTrack, "next_track", xf86AudioNext},
	{MediaPlayPause, "play_pause", xf86AudioPlay},
	{MediaPrevTrack, "prev_track", xf86AudioPrev},
	{MediaStop, "stop", xf86AudioStop},
	{MediaMute, "mute", xf86AudioMute},
	{MediaVolumeUp, "volume_up", xf86AudioRaiseVolume},
	{MediaVolumeDown, "volume_down", xf86AudioLowerVolume},
}

// Keysym returns the native symbol bound to the media action, or 0 for an
// unknown action.
func (m MediaKey) Keysym() xproto.Keysym {
	for _, mk := range mediaKeys {
		if mk.key == m {
			return mk.keysym
		}
	}
	return 0
}

func (m MediaKey) String() string {
	for _, mk := range mediaKeys {
		if mk.key == m {
			return mk.name
		}
	}
	return fmt.Sprintf("media(%d)", int(m))
}

// ParseMediaKey converts a media action name such as "play_pause" into a
// MediaKey. Dashes and spaces are accepted in place of underscores.
func ParseMediaKey(name string) (MediaKey, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, mk := range mediaKeys {
		if mk.name == norm {
			return mk.key, nil
		}
	}
	return 0, fmt.Errorf("unknown media key: %s", name)
}
