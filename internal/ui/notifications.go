package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog/log"
)

// NotificationLevel ranks administrative notifications. Errors are shown
// even when notifications are disabled.
type NotificationLevel int

const (
	LevelInfo NotificationLevel = iota
	LevelWarn
	LevelError
)

func (l NotificationLevel) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// NotificationManager handles showing desktop notifications
type NotificationManager struct {
	useNotifications bool
	appName          string
	embeddedIcon     []byte
	notify           func(title, message, icon string) error

	iconOnce sync.Once
	iconPath string
}

// NewNotificationManager creates a new notification manager
func NewNotificationManager(useNotifications bool, appName string, embeddedIcon []byte) *NotificationManager {
	return &NotificationManager{
		useNotifications: useNotifications,
		appName:          appName,
		embeddedIcon:     embeddedIcon,
		notify: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

// ShowNotification displays a desktop notification if enabled
func (n *NotificationManager) ShowNotification(title, message string) {
	if !n.useNotifications {
		return
	}
	n.send(title, message)
}

// ShowAdminNotification displays a status notification about the
// application itself.
func (n *NotificationManager) ShowAdminNotification(level NotificationLevel, title, message string) {
	if !n.useNotifications && level < LevelError {
		log.Debug().Str("level", level.String()).Str("title", title).Msg("Notification suppressed")
		return
	}
	n.send(fmt.Sprintf("%s: %s", n.appName, title), message)
}

func (n *NotificationManager) send(title, message string) {
	if err := n.notify(title, message, n.icon()); err != nil {
		log.Warn().Err(err).Str("title", title).Msg("Error showing notification")
	}
}

// icon writes the embedded icon to a temporary file once; beeep takes a path.
func (n *NotificationManager) icon() string {
	n.iconOnce.Do(func() {
		if len(n.embeddedIcon) == 0 {
			return
		}
		path, err := writeTempIcon(n.embeddedIcon)
		if err != nil {
			log.Warn().Err(err).Msg("Error writing temporary icon")
			return
		}
		n.iconPath = path
	})
	return n.iconPath
}

// writeTempIcon writes the icon to a temporary file and returns its
// absolute path.
func writeTempIcon(iconData []byte) (string, error) {
	tmpFile, err := os.CreateTemp("", "keymaster-icon-*.png")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	if _, err := tmpFile.Write(iconData); err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(tmpFile.Name())
	if err != nil {
		return tmpFile.Name(), nil
	}
	return absPath, nil
}

var (
	globalMu                  sync.RWMutex
	globalNotificationManager *NotificationManager
)

// InitGlobalNotifications initializes the global notification manager
func InitGlobalNotifications(useNotifications bool, appName string, embeddedIcon []byte) {
	globalMu.Lock()
	globalNotificationManager = NewNotificationManager(useNotifications, appName, embeddedIcon)
	globalMu.Unlock()
}

func global() *NotificationManager {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalNotificationManager
}

// ShowNotification shows a notification through the global manager.
func ShowNotification(title, message string) {
	if n := global(); n != nil {
		n.ShowNotification(title, message)
		return
	}
	log.Debug().Str("title", title).Msg("Notification not shown (manager not initialized)")
}

// ShowAdminNotification shows an administrative notification through the
// global manager.
func ShowAdminNotification(level NotificationLevel, title, message string) {
	if n := global(); n != nil {
		n.ShowAdminNotification(level, title, message)
		return
	}
	log.Debug().Str("title", title).Msg("Notification not shown (manager not initialized)")
}
