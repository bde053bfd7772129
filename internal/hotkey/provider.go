package hotkey

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultPollInterval = 300 * time.Millisecond

// Options configures a Provider. Zero values are replaced by defaults.
type Options struct {
	// DisplayName selects the X display. Empty means $DISPLAY.
	DisplayName string

	// PollInterval bounds how long the loop sleeps between event polls.
	PollInterval time.Duration

	// Logger receives structured loop events. Defaults to the global logger.
	Logger *zerolog.Logger

	// Open opens the display on the loop goroutine. Defaults to Open.
	Open Opener

	// Resolver maps key identities to native values. Defaults to KeysymResolver.
	Resolver Resolver

	// OnError is called on the loop goroutine for every protocol error.
	OnError func(error)
}

func (o *Options) applyDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.Logger == nil {
		l := log.Logger
		o.Logger = &l
	}
	if o.Open == nil {
		o.Open = Open
	}
	if o.Resolver == nil {
		o.Resolver = KeysymResolver{}
	}
}

// Provider owns the display connection and the registered hotkeys.
// Register, RegisterMedia, RegisterString and Reset are safe for concurrent
// use.
type Provider struct {
	opts  Options
	log   zerolog.Logger
	queue *commandQueue

	lifecycle sync.Mutex
	started   bool

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	doneOnce sync.Once
}

// New returns a Provider that has not been started yet.
func New(opts Options) *Provider {
	opts.applyDefaults()
	return &Provider{
		opts:   opts,
		log:    opts.Logger.With().Str("component", "hotkey").Logger(),
		queue:  newCommandQueue(),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the event loop and waits until it has opened the display.
// The open error is returned as is; the provider is stopped afterwards.
func (p *Provider) Start() error {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}
	if p.stopping() {
		return ErrStopped
	}
	p.started = true

	ready := make(chan error, 1)
	go p.run(ready)
	return <-ready
}

// Stop signals the loop, waits for it to exit and close the display.
// It is safe to call more than once.
func (p *Provider) Stop() {
	p.lifecycle.Lock()
	p.stopOnce.Do(func() { close(p.stopCh) })
	if !p.started {
		p.markDone()
	}
	p.lifecycle.Unlock()

	<-p.done
}

// Register queues a key combination. The grab is installed asynchronously by
// the loop; a combination that cannot be resolved never fires.
func (p *Provider) Register(c Combination, l Listener) error {
	if l == nil {
		return ErrNilListener
	}
	return p.enqueue(newHotKey(c, l))
}

// RegisterMedia queues a media key.
func (p *Provider) RegisterMedia(m MediaKey, l Listener) error {
	if l == nil {
		return ErrNilListener
	}
	return p.enqueue(newMediaHotKey(m, l))
}

// RegisterString parses s with ParseCombination and registers the result.
func (p *Provider) RegisterString(s string, l Listener) error {
	c, err := ParseCombination(s)
	if err != nil {
		return err
	}
	return p.Register(c, l)
}

func (p *Provider) enqueue(h HotKey) error {
	if p.stopping() {
		return ErrStopped
	}
	p.queue.push(h)
	return nil
}

// Reset removes every hotkey and blocks until the loop has released all
// grabs. Registrations still waiting in the queue are dropped. Reset must not
// be called from a Listener.
func (p *Provider) Reset() error {
	p.lifecycle.Lock()
	started := p.started
	p.lifecycle.Unlock()

	if p.stopping() {
		return ErrStopped
	}
	if !started {
		p.queue.clear()
		return nil
	}

	select {
	case <-p.queue.requestReset():
		return nil
	case <-p.done:
		return ErrStopped
	}
}

func (p *Provider) stopping() bool {
	select {
	case <-p.stopCh:
		return true
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *Provider) markDone() {
	p.doneOnce.Do(func() { close(p.done) })
}
