package hotkey

import (
	"fmt"
	"runtime"

	"github.com/BurntSushi/xgb/xproto"
)

// run is the event loop. It owns the display from open to close and is the
// only goroutine touching the grab table.
func (p *Provider) run(ready chan<- error) {
	// Xlib-style connections are not shared across threads.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer p.markDone()

	display, err := p.opts.Open(p.opts.DisplayName)
	if err != nil {
		p.log.Error().Err(err).Str("display", p.opts.DisplayName).Msg("Failed to open display")
		// Mark done before Start returns so later calls see ErrStopped.
		p.markDone()
		ready <- fmt.Errorf("opening display: %w", err)
		return
	}
	defer func() {
		display.Close()
		p.log.Info().Msg("Hotkey loop stopped, display closed")
	}()

	grabs := newGrabTable(display, p.opts.Resolver, p.log)
	sink := errorSink{log: p.log, handler: p.opts.OnError}

	p.log.Info().Dur("poll_interval", p.opts.PollInterval).Msg("Hotkey loop started")
	ready <- nil

	for {
		p.dispatchPending(display, grabs, sink)
		p.queue.service(grabs.revokeAll, grabs.install)
		if !p.queue.wait(p.opts.PollInterval, p.stopCh) {
			return
		}
	}
}

// dispatchPending drains every queued event and error without blocking.
func (p *Provider) dispatchPending(display Display, grabs *grabTable, sink errorSink) {
	for {
		ev, xerr := display.PollEvent()
		if ev == nil && xerr == nil {
			return
		}
		if xerr != nil {
			sink.report(xerr)
			continue
		}
		if kp, ok := ev.(xproto.KeyPressEvent); ok {
			grabs.dispatch(kp.Detail, kp.State)
		}
	}
}
