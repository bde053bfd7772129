package ui

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog/log"

	"github.com/TanaroSch/keymaster/internal/config"
)

// SystrayManager handles the system tray icon and menu
type SystrayManager struct {
	mu           sync.Mutex
	bindings     []config.Binding // private copy, replaced by UpdateBindings
	version      string
	embeddedIcon []byte

	onReloadConfig  func()
	onOpenConfig    func()
	onToggleBinding func(idx int)
	onQuit          func()

	miStatus     *systray.MenuItem
	bindingItems []*systray.MenuItem
}

// NewSystrayManager creates a new system tray manager. onToggleBinding
// receives the index of a clicked binding; the tray never edits the
// configuration itself.
func NewSystrayManager(
	bindings []config.Binding,
	version string,
	embeddedIcon []byte,
	onReloadConfig func(),
	onOpenConfig func(),
	onToggleBinding func(idx int),
	onQuit func(),
) *SystrayManager {
	return &SystrayManager{
		bindings:        cloneBindings(bindings),
		version:         version,
		embeddedIcon:    embeddedIcon,
		onReloadConfig:  onReloadConfig,
		onOpenConfig:    onOpenConfig,
		onToggleBinding: onToggleBinding,
		onQuit:          onQuit,
	}
}

// Run initializes and starts the system tray. It blocks until Quit.
func (s *SystrayManager) Run() {
	systray.Run(s.onReady, s.onExit)
}

// Quit closes the tray, which makes Run return.
func (s *SystrayManager) Quit() {
	systray.Quit()
}

// SetStatus updates the disabled status line at the top of the menu.
func (s *SystrayManager) SetStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.miStatus != nil {
		s.miStatus.SetTitle(text)
	}
}

// UpdateBindings replaces the bindings listed in the submenu with a copy of
// bindings. Menu items cannot be added after start, so bindings beyond the
// original count are only listed after a restart.
func (s *SystrayManager) UpdateBindings(bindings []config.Binding) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bindings = cloneBindings(bindings)
	for i, item := range s.bindingItems {
		if i < len(s.bindings) {
			item.SetTitle(bindingTitle(s.bindings[i]))
			item.SetTooltip(bindingTooltip(s.bindings[i]))
			item.Show()
		} else {
			item.Hide()
		}
	}
	if extra := len(s.bindings) - len(s.bindingItems); extra > 0 && s.bindingItems != nil {
		log.Info().Int("count", extra).Msg("New bindings are active but not listed in the tray until restart")
	}
}

func (s *SystrayManager) onReady() {
	title := fmt.Sprintf("keymaster %s", s.version)
	systray.SetTitle(title)
	systray.SetTooltip(title)
	if len(s.embeddedIcon) > 0 {
		systray.SetIcon(s.embeddedIcon)
	} else {
		log.Warn().Msg("No icon data to set for systray")
	}

	miVersion := systray.AddMenuItem(fmt.Sprintf("Version: %s", s.version), "keymaster version")
	miVersion.Disable()

	s.mu.Lock()
	s.miStatus = systray.AddMenuItem("Starting...", "Registered hotkeys")
	s.miStatus.Disable()
	s.mu.Unlock()
	systray.AddSeparator()

	s.addBindingItems()
	systray.AddSeparator()

	miReloadConfig := systray.AddMenuItem("Reload Configuration", "Re-read the config file and re-register all hotkeys")
	miOpenConfig := systray.AddMenuItem("Open Config File", "Open config.yaml in the default editor")
	systray.AddSeparator()
	miQuit := systray.AddMenuItem("Quit", "Release all hotkeys and exit")

	go func() {
		for range miReloadConfig.ClickedCh {
			log.Debug().Msg("Reload Configuration menu item clicked")
			if s.onReloadConfig != nil {
				s.onReloadConfig()
			}
		}
	}()
	go func() {
		for range miOpenConfig.ClickedCh {
			log.Debug().Msg("Open Config File menu item clicked")
			if s.onOpenConfig != nil {
				s.onOpenConfig()
			}
		}
	}()
	go func() {
		<-miQuit.ClickedCh
		log.Debug().Msg("Quit menu item clicked")
		if s.onQuit != nil {
			s.onQuit()
		}
		systray.Quit()
	}()

	log.Debug().Msg("Systray ready and menu configured")
}

func (s *SystrayManager) onExit() {
	log.Debug().Msg("Systray exiting")
}

// addBindingItems lists every binding with a check mark; clicking one
// asks the application to toggle it.
func (s *SystrayManager) addBindingItems() {
	s.mu.Lock()
	defer s.mu.Unlock()

	miBindings := systray.AddMenuItem("Bindings", "Enable or disable bindings")
	if len(s.bindings) == 0 {
		none := miBindings.AddSubMenuItem("(No bindings defined)", "Add bindings in config.yaml")
		none.Disable()
		return
	}

	for i, b := range s.bindings {
		item := miBindings.AddSubMenuItem(bindingTitle(b), bindingTooltip(b))
		s.bindingItems = append(s.bindingItems, item)
		go func(idx int) {
			for range item.ClickedCh {
				s.toggleBinding(idx)
			}
		}(i)
	}
}

func (s *SystrayManager) toggleBinding(idx int) {
	s.mu.Lock()
	inRange := idx < len(s.bindings)
	s.mu.Unlock()

	if !inRange {
		ShowAdminNotification(LevelWarn, "Menu Inconsistency", "Binding list changed. Please reload.")
		return
	}
	if s.onToggleBinding != nil {
		s.onToggleBinding(idx)
	}
}

func cloneBindings(bindings []config.Binding) []config.Binding {
	return append([]config.Binding(nil), bindings...)
}

func bindingTitle(b config.Binding) string {
	if b.Enabled {
		return "✓ " + b.Name
	}
	return "  " + b.Name
}

func bindingTooltip(b config.Binding) string {
	key := b.Hotkey
	if key == "" {
		key = "media:" + b.Media
	}
	return fmt.Sprintf("%s (%s, %s)", b.Name, key, b.Action.Type)
}
