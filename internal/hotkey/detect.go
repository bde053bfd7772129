package hotkey

import "os"

// DisplayServer represents the type of display server in use
type DisplayServer int

const (
	DisplayServerUnknown DisplayServer = iota
	DisplayServerX11
	DisplayServerXWayland
	DisplayServerWayland
)

func (ds DisplayServer) String() string {
	switch ds {
	case DisplayServerX11:
		return "X11"
	case DisplayServerXWayland:
		return "XWayland"
	case DisplayServerWayland:
		return "Wayland"
	default:
		return "Unknown"
	}
}

// SupportsGrabs reports whether passive X11 grabs can work. Under XWayland
// they only see keys pressed while an X11 window has focus.
func (ds DisplayServer) SupportsGrabs() bool {
	return ds == DisplayServerX11 || ds == DisplayServerXWayland
}

// DetectDisplayServer determines which display server is currently in use
// from the session environment.
func DetectDisplayServer() DisplayServer {
	wayland := os.Getenv("WAYLAND_DISPLAY") != "" || os.Getenv("XDG_SESSION_TYPE") == "wayland"
	x11 := os.Getenv("DISPLAY") != ""

	switch {
	case wayland && x11:
		return DisplayServerXWayland
	case wayland:
		return DisplayServerWayland
	case x11:
		return DisplayServerX11
	default:
		return DisplayServerUnknown
	}
}
