package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.yaml.in/yaml/v3"

	"github.com/TanaroSch/keymaster/internal/hotkey"
)

const (
	maxConfigFileBytes int64 = 1 << 20 // 1MB

	// EnvConfigPath overrides the default config file location.
	EnvConfigPath = "KEYMASTER_CONFIG"

	defaultPollInterval = 100 * time.Millisecond
	defaultLogLevel     = "info"
)

// ActionType selects what a binding does when its key is pressed.
type ActionType string

const (
	ActionExec   ActionType = "exec"
	ActionNotify ActionType = "notify"
	ActionCopy   ActionType = "copy"
	ActionPaste  ActionType = "paste"
)

// Action is the work performed by a binding.
type Action struct {
	Type    ActionType `yaml:"type"`
	Command string     `yaml:"command,omitempty"`
	Args    []string   `yaml:"args,omitempty"`
	Title   string     `yaml:"title,omitempty"`
	Text    string     `yaml:"text,omitempty"`
}

// Binding ties a hotkey or a media key to an action. Exactly one of Hotkey
// and Media is set.
type Binding struct {
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
	Hotkey  string `yaml:"hotkey,omitempty"`
	Media   string `yaml:"media,omitempty"`
	Action  Action `yaml:"action"`
}

// Config holds the application configuration
type Config struct {
	Display          string        `yaml:"display"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	UseNotifications bool          `yaml:"use_notifications"`
	LogLevel         string        `yaml:"log_level"`
	LogFile          string        `yaml:"log_file,omitempty"`
	Bindings         []Binding     `yaml:"bindings"`

	// Non-YAML fields (runtime state)
	configPath string
}

// GetConfigPath returns the path the configuration was loaded from.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// DefaultPath returns $KEYMASTER_CONFIG, or config.yaml under the user's
// config directory.
func DefaultPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	return filepath.Join(dir, "keymaster", "config.yaml"), nil
}

// DefaultConfig returns the configuration written on first start.
func DefaultConfig() Config {
	return Config{
		PollInterval:     defaultPollInterval,
		UseNotifications: true,
		LogLevel:         defaultLogLevel,
		Bindings: []Binding{
			{
				Name:    "Terminal",
				Enabled: true,
				Hotkey:  "ctrl+alt+t",
				Action:  Action{Type: ActionExec, Command: "x-terminal-emulator"},
			},
			{
				Name:    "Play/Pause",
				Enabled: true,
				Media:   "play_pause",
				Action:  Action{Type: ActionNotify, Title: "keymaster", Text: "Play/pause pressed"},
			},
			{
				Name:    "Paste signature",
				Enabled: false,
				Hotkey:  "ctrl+alt+s",
				Action:  Action{Type: ActionPaste, Text: "Best regards"},
			},
		},
	}
}

func (c *Config) applyDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}
	for i := range c.Bindings {
		b := &c.Bindings[i]
		b.Name = strings.TrimSpace(b.Name)
		if b.Name == "" {
			b.Name = fmt.Sprintf("binding %d", i+1)
		}
		b.Action.Type = ActionType(strings.ToLower(strings.TrimSpace(string(b.Action.Type))))
	}
}

// Load reads, defaults and validates the configuration file. A missing file
// is created with DefaultConfig first.
func Load(configPath string) (*Config, error) {
	if err := CreateDefaultConfig(configPath); err != nil {
		return nil, err
	}

	info, err := os.Stat(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file '%s': %w", configPath, err)
	}
	if info.Size() > maxConfigFileBytes {
		return nil, fmt.Errorf("config file '%s' is too large (%d bytes)", configPath, info.Size())
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file '%s': %w", configPath, err)
	}
	cfg.configPath = configPath
	return cfg, nil
}

// Parse decodes YAML configuration data, applies defaults and validates it.
// Validation warnings are logged.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	cfg.applyDefaults()

	warnings, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn().Str("component", "config").Msg(w)
	}
	return &cfg, nil
}

// Validate checks every binding. It returns an error joining every invalid
// binding and warnings for legal but suspicious settings.
func (c *Config) Validate() ([]string, error) {
	var (
		errs     []error
		warnings []string
	)
	seen := make(map[string]string)

	for _, b := range c.Bindings {
		key, err := b.validate()
		if err != nil {
			errs = append(errs, fmt.Errorf("binding %q: %w", b.Name, err))
			continue
		}
		if !b.Enabled {
			continue
		}
		if prev, dup := seen[key]; dup {
			warnings = append(warnings, fmt.Sprintf("binding %q uses %s, already bound by %q; the first binding wins", b.Name, key, prev))
			continue
		}
		seen[key] = b.Name
	}
	return warnings, errors.Join(errs...)
}

// validate returns the canonical key identity of the binding.
func (b Binding) validate() (string, error) {
	hasHotkey := strings.TrimSpace(b.Hotkey) != ""
	hasMedia := strings.TrimSpace(b.Media) != ""

	var key string
	switch {
	case hasHotkey && hasMedia:
		return "", errors.New("set either hotkey or media, not both")
	case hasHotkey:
		c, err := hotkey.ParseCombination(b.Hotkey)
		if err != nil {
			return "", err
		}
		key = c.String()
	case hasMedia:
		m, err := hotkey.ParseMediaKey(b.Media)
		if err != nil {
			return "", err
		}
		key = "media:" + m.String()
	default:
		return "", errors.New("hotkey or media is required")
	}

	switch b.Action.Type {
	case ActionExec:
		if strings.TrimSpace(b.Action.Command) == "" {
			return "", errors.New("exec action requires a command")
		}
	case ActionCopy, ActionPaste:
		if b.Action.Text == "" {
			return "", fmt.Errorf("%s action requires text", b.Action.Type)
		}
	case ActionNotify:
	case "":
		return "", errors.New("action type is required")
	default:
		return "", fmt.Errorf("unknown action type %q", b.Action.Type)
	}
	return key, nil
}

// EnabledBindings returns the bindings that should be registered.
func (c *Config) EnabledBindings() []Binding {
	var out []Binding
	for _, b := range c.Bindings {
		if b.Enabled {
			out = append(out, b)
		}
	}
	return out
}

// Save writes the current configuration back to its file.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config has no file path")
	}
	return writeConfig(c.configPath, c)
}

// CreateDefaultConfig creates a default configuration file if none exists
func CreateDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil // File exists, don't overwrite
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking config path '%s': %w", configPath, err)
	}

	log.Info().Str("component", "config").Str("path", configPath).Msg("Creating default configuration file")

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory for '%s': %w", configPath, err)
	}
	cfg := DefaultConfig()
	return writeConfig(configPath, &cfg)
}

func writeConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to a temp file and rename so a watcher never sees a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file '%s': %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace config file '%s': %w", path, err)
	}
	return nil
}
