package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/TanaroSch/keymaster/internal/clipboard"
	"github.com/TanaroSch/keymaster/internal/config"
	"github.com/TanaroSch/keymaster/internal/hotkey"
	"github.com/TanaroSch/keymaster/internal/resources"
	"github.com/TanaroSch/keymaster/internal/ui"
)

// hotkeyProvider is the part of hotkey.Provider the application drives.
type hotkeyProvider interface {
	Start() error
	Stop()
	Register(c hotkey.Combination, l hotkey.Listener) error
	RegisterMedia(m hotkey.MediaKey, l hotkey.Listener) error
	Reset() error
}

// Options configures the application.
type Options struct {
	Version string
	// Display overrides the display from the config file.
	Display string
	// Tray shows a system tray icon; otherwise the app runs headless.
	Tray bool
	// Watch reloads bindings when the config file changes.
	Watch bool
	Logger zerolog.Logger
}

// Application represents the main application
type Application struct {
	opts     Options
	log      zerolog.Logger
	iconData []byte

	mu     sync.Mutex // serializes reloads
	config *config.Config

	hotkeys        hotkeyProvider
	actions        *actionRunner
	systrayManager *ui.SystrayManager

	// conflictNotified limits grab conflict notifications to one per
	// registration round; a refused grab reports one error per lock variant.
	conflictNotified atomic.Bool

	// watching is set while the config watcher runs; it applies saved
	// changes, so toggles only write the file.
	watching atomic.Bool
}

// New creates a new application instance
func New(cfg *config.Config, opts Options) *Application {
	a := &Application{
		opts:   opts,
		log:    opts.Logger.With().Str("component", "app").Logger(),
		config: cfg,
	}

	var err error
	a.iconData, err = resources.GetIcon()
	if err != nil {
		a.log.Warn().Err(err).Msg("Failed to render icon")
	}
	ui.InitGlobalNotifications(cfg.UseNotifications, "keymaster", a.iconData)

	display := cfg.Display
	if opts.Display != "" {
		display = opts.Display
	}
	logger := opts.Logger
	a.hotkeys = hotkey.New(hotkey.Options{
		DisplayName:  display,
		PollInterval: cfg.PollInterval,
		Logger:       &logger,
		OnError:      a.onProtocolError,
	})

	a.actions = &actionRunner{
		clipboard: clipboard.NewManager(opts.Logger),
		notify:    ui.ShowNotification,
		start:     startDetached,
		log:       a.log,
	}

	if opts.Tray {
		a.systrayManager = ui.NewSystrayManager(cfg.Bindings, opts.Version, a.iconData,
			a.onReloadConfig, a.onOpenConfigFile, a.onToggleBinding, a.onQuit)
	}
	return a
}

// Run starts the hotkey loop, registers the bindings and blocks until ctx is
// cancelled or Quit is chosen from the tray.
func (a *Application) Run(ctx context.Context) error {
	if err := a.hotkeys.Start(); err != nil {
		return fmt.Errorf("starting hotkeys: %w", err)
	}
	defer a.hotkeys.Stop()

	a.mu.Lock()
	n, err := a.applyBindings(a.config)
	a.mu.Unlock()
	if err != nil {
		a.log.Warn().Err(err).Msg("Some bindings could not be registered")
		ui.ShowAdminNotification(ui.LevelWarn, "Hotkey Registration Issue", err.Error())
	}
	a.log.Info().Int("bindings", n).Msg("keymaster running")
	a.setStatus(n)

	if a.opts.Watch && a.config.GetConfigPath() != "" {
		w, err := config.Watch(a.config.GetConfigPath(), config.DefaultDebounce, a.log, a.onReloadConfig)
		if err != nil {
			a.log.Warn().Err(err).Msg("Config file will not be watched")
		} else {
			a.watching.Store(true)
			defer func() {
				a.watching.Store(false)
				w.Close()
			}()
		}
	}

	if a.systrayManager == nil {
		<-ctx.Done()
		a.log.Info().Msg("Shutting down")
		return nil
	}

	go func() {
		<-ctx.Done()
		a.systrayManager.Quit()
	}()
	a.systrayManager.Run()
	a.log.Info().Msg("Shutting down")
	return nil
}

// applyBindings clears every hotkey and registers the enabled bindings of
// cfg. It returns the number registered and the joined registration errors.
// The caller holds a.mu.
func (a *Application) applyBindings(cfg *config.Config) (int, error) {
	if err := a.hotkeys.Reset(); err != nil {
		return 0, fmt.Errorf("resetting hotkeys: %w", err)
	}
	a.conflictNotified.Store(false)

	var errs []error
	n := 0
	for _, b := range cfg.EnabledBindings() {
		if err := a.register(b); err != nil {
			errs = append(errs, fmt.Errorf("binding %q: %w", b.Name, err))
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

func (a *Application) register(b config.Binding) error {
	listener := func(hotkey.HotKey) {
		// Listeners run on the hotkey loop; actions may block.
		go a.actions.run(b) //nolint:errcheck
	}

	if b.Media != "" {
		m, err := hotkey.ParseMediaKey(b.Media)
		if err != nil {
			return err
		}
		return a.hotkeys.RegisterMedia(m, listener)
	}
	c, err := hotkey.ParseCombination(b.Hotkey)
	if err != nil {
		return err
	}
	return a.hotkeys.Register(c, listener)
}

// onReloadConfig re-reads the config file and replaces every binding. An
// invalid file keeps the current bindings.
func (a *Application) onReloadConfig() {
	a.mu.Lock()
	defer a.mu.Unlock()

	configPath := a.config.GetConfigPath()
	a.log.Info().Str("path", configPath).Msg("Reloading configuration")

	newConfig, err := config.Load(configPath)
	if err != nil {
		a.log.Error().Err(err).Msg("Error reloading configuration, keeping current bindings")
		ui.ShowAdminNotification(ui.LevelError, "Configuration Error",
			fmt.Sprintf("Failed to reload configuration. Check %s. Error: %v", configPath, err))
		return
	}
	a.config = newConfig

	n, err := a.applyBindings(newConfig)
	a.setStatus(n)
	if a.systrayManager != nil {
		a.systrayManager.UpdateBindings(newConfig.Bindings)
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("Some bindings could not be registered after reload")
		ui.ShowAdminNotification(ui.LevelWarn, "Hotkey Registration Issue", err.Error())
		return
	}
	a.log.Info().Int("bindings", n).Msg("Configuration reloaded")
	ui.ShowAdminNotification(ui.LevelInfo, "Configuration Reloaded",
		fmt.Sprintf("%d bindings active.", n))
}

// onToggleBinding flips the enabled flag of binding idx and saves the config.
// The change is made on a copy so a failed save leaves the running config
// untouched.
func (a *Application) onToggleBinding(idx int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if idx < 0 || idx >= len(a.config.Bindings) {
		a.log.Warn().Int("index", idx).Msg("Toggle for unknown binding ignored")
		return
	}
	next := *a.config
	next.Bindings = append([]config.Binding(nil), a.config.Bindings...)
	b := &next.Bindings[idx]
	b.Enabled = !b.Enabled

	if err := next.Save(); err != nil {
		a.log.Error().Err(err).Str("binding", b.Name).Msg("Failed to save config after toggling binding")
		ui.ShowAdminNotification(ui.LevelError, "Save Error",
			fmt.Sprintf("Failed to save config after toggling '%s': %v", b.Name, err))
		return
	}
	a.config = &next
	a.log.Info().Str("binding", b.Name).Bool("enabled", b.Enabled).Msg("Toggled binding")
	if a.systrayManager != nil {
		a.systrayManager.UpdateBindings(next.Bindings)
	}

	if a.watching.Load() {
		return
	}
	n, err := a.applyBindings(&next)
	a.setStatus(n)
	if err != nil {
		a.log.Warn().Err(err).Msg("Some bindings could not be registered after toggle")
		ui.ShowAdminNotification(ui.LevelWarn, "Hotkey Registration Issue", err.Error())
	}
}

// onQuit is called when the quit menu item is clicked
func (a *Application) onQuit() {
	a.log.Info().Msg("Quit requested, releasing hotkeys")
	a.hotkeys.Stop()
}

// onOpenConfigFile is called when the open config menu item is clicked
func (a *Application) onOpenConfigFile() {
	a.mu.Lock()
	configPath := a.config.GetConfigPath()
	a.mu.Unlock()

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		absPath = configPath
	}
	if _, err := os.Stat(absPath); err != nil {
		ui.ShowAdminNotification(ui.LevelWarn, "Error Opening File", fmt.Sprintf("Config file not found: %s", absPath))
		return
	}
	if err := ui.OpenFileInDefaultApp(absPath); err != nil {
		a.log.Warn().Err(err).Str("path", absPath).Msg("Could not open config file")
		ui.ShowAdminNotification(ui.LevelWarn, "Error Opening File",
			fmt.Sprintf("Could not open config file '%s': %v", absPath, err))
	}
}

// onProtocolError runs on the hotkey loop. BadAccess on a grab means another
// client already owns the combination.
func (a *Application) onProtocolError(err error) {
	if _, ok := err.(xproto.AccessError); !ok {
		return
	}
	if a.conflictNotified.Swap(true) {
		return
	}
	go ui.ShowAdminNotification(ui.LevelWarn, "Hotkey Conflict",
		"A hotkey is already grabbed by another application. Run 'keymaster doctor' for details.")
}

func (a *Application) setStatus(n int) {
	if a.systrayManager != nil {
		a.systrayManager.SetStatus(fmt.Sprintf("Active bindings: %d", n))
	}
}
