package app

import (
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/TanaroSch/keymaster/internal/config"
)

// clipboardActions is the part of clipboard.Manager used by bindings.
type clipboardActions interface {
	Copy(text string) error
	Paste(text string) error
}

// actionRunner executes binding actions. It runs on its own goroutine per
// key press, never on the hotkey loop.
type actionRunner struct {
	clipboard clipboardActions
	notify    func(title, message string)
	start     func(name string, args ...string) error
	log       zerolog.Logger
}

func (r *actionRunner) run(b config.Binding) error {
	log := r.log.With().Str("binding", b.Name).Str("action", string(b.Action.Type)).Logger()

	var err error
	switch b.Action.Type {
	case config.ActionExec:
		err = r.start(b.Action.Command, b.Action.Args...)
	case config.ActionNotify:
		title := b.Action.Title
		if title == "" {
			title = b.Name
		}
		r.notify(title, b.Action.Text)
	case config.ActionCopy:
		err = r.clipboard.Copy(b.Action.Text)
	case config.ActionPaste:
		err = r.clipboard.Paste(b.Action.Text)
	default:
		err = fmt.Errorf("unknown action type %q", b.Action.Type)
	}
	if err != nil {
		log.Error().Err(err).Msg("Action failed")
		return err
	}
	log.Debug().Msg("Action done")
	return nil
}

// startDetached launches a command without waiting for it. The child is
// reaped in the background.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
