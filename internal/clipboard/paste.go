package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
)

// pasteCommands are tried in order until one succeeds: xdotool for X11,
// wtype for Wayland sessions.
var pasteCommands = [][]string{
	{"xdotool", "key", "--clearmodifiers", "ctrl+v"},
	{"wtype", "-M", "ctrl", "-P", "v", "-m", "ctrl"},
}

// simulatePlatformPaste sends the paste shortcut to the focused window.
func simulatePlatformPaste() error {
	var errs []error
	for _, argv := range pasteCommands {
		out, err := exec.Command(argv[0], argv[1:]...).CombinedOutput()
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w (%s)", argv[0], err, out))
	}
	return fmt.Errorf("paste simulation failed (is xdotool or wtype installed?): %w", errors.Join(errs...))
}
