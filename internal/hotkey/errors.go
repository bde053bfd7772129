package hotkey

import (
	"errors"
	"runtime/debug"
	"unicode/utf8"

	"github.com/BurntSushi/xgb"
	"github.com/rs/zerolog"
)

var (
	// ErrStopped is returned by operations on a provider that has been stopped.
	ErrStopped = errors.New("hotkey provider stopped")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("hotkey provider already started")

	// ErrNilListener is returned when a hotkey is registered without a listener.
	ErrNilListener = errors.New("hotkey listener is nil")
)

// errorTextLimit caps the length of a protocol error description.
const errorTextLimit = 1024

// errorSink reports asynchronous protocol errors. The loop keeps running
// after every report.
type errorSink struct {
	log     zerolog.Logger
	handler func(error)
}

func (s errorSink) report(xerr xgb.Error) {
	text := truncateText(xerr.Error(), errorTextLimit)
	s.log.Warn().
		Uint16("sequence", xerr.SequenceId()).
		Uint32("bad_value", xerr.BadId()).
		Str("error", text).
		Msg("X11 protocol error")

	if s.handler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic in error handler")
		}
	}()
	s.handler(xerr)
}

// truncateText cuts s to at most limit bytes without splitting a UTF-8
// sequence.
func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
