package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultTransitionMS = 300
	MaxTransitionMS     = 5000
	DefaultZIndex       = 1000
	DefaultContainerID  = "tooltip-auto-container"
	DefaultWindowWidth  = 960
	DefaultWindowHeight = 640
	DefaultOpacity      = 0.8
	DefaultJournalLimit = 1000
)

// LoggingConfig defines runtime logging behavior.
type LoggingConfig struct {
	Level     string `json:"level"`
	LogToFile bool   `json:"log_to_file"`
}

// TooltipConfig holds defaults applied to every tooltip the app builds.
type TooltipConfig struct {
	TransitionMS int `json:"transition_ms"`
	ZIndex       int `json:"z_index"`
	// Background is a "#rrggbb" colour; empty means the theme overlay colour.
	Background  string  `json:"background"`
	Opacity     float64 `json:"opacity"`
	ContainerID string  `json:"container_id"`
}

// WindowConfig stores the gallery window size.
type WindowConfig struct {
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// GalleryConfig points to a gallery definition; empty path uses the built-in
// one.
type GalleryConfig struct {
	Path string `json:"path"`
}

// JournalConfig controls the SQLite journal of tooltip visibility changes.
type JournalConfig struct {
	Enabled bool `json:"enabled"`
	// MaxEvents is how many events survive the prune on startup.
	MaxEvents int `json:"max_events"`
}

// AppConfig is the root persisted application configuration.
type AppConfig struct {
	Logging LoggingConfig `json:"logging"`
	Tooltip TooltipConfig `json:"tooltip"`
	Window  WindowConfig  `json:"window"`
	Gallery GalleryConfig `json:"gallery"`
	Journal JournalConfig `json:"journal"`
}

func Default() AppConfig {
	return AppConfig{
		Logging: LoggingConfig{
			Level:     "info",
			LogToFile: false,
		},
		Tooltip: TooltipConfig{
			TransitionMS: DefaultTransitionMS,
			ZIndex:       DefaultZIndex,
			Background:   "",
			Opacity:      DefaultOpacity,
			ContainerID:  DefaultContainerID,
		},
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
		},
		Journal: JournalConfig{
			Enabled:   true,
			MaxEvents: DefaultJournalLimit,
		},
	}
}

func Load(path string) (AppConfig, error) {
	cfg := Default()
	cleanPath := filepath.Clean(path)
	// #nosec G304 -- path is resolved by app runtime or passed explicitly by the user.
	raw, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config json: %w", err)
	}

	cfg.FillMissingDefaults()

	return cfg, nil
}

func (c *AppConfig) FillMissingDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	// Zero turns the fade off.
	if c.Tooltip.TransitionMS < 0 {
		c.Tooltip.TransitionMS = DefaultTransitionMS
	}
	if c.Tooltip.TransitionMS > MaxTransitionMS {
		c.Tooltip.TransitionMS = MaxTransitionMS
	}
	if c.Tooltip.ZIndex == 0 {
		c.Tooltip.ZIndex = DefaultZIndex
	}
	if c.Tooltip.Opacity <= 0 || c.Tooltip.Opacity > 1 {
		c.Tooltip.Opacity = DefaultOpacity
	}
	if strings.TrimSpace(c.Tooltip.ContainerID) == "" {
		c.Tooltip.ContainerID = DefaultContainerID
	}
	c.Tooltip.Background = strings.TrimSpace(c.Tooltip.Background)
	if c.Window.Width <= 0 {
		c.Window.Width = DefaultWindowWidth
	}
	if c.Window.Height <= 0 {
		c.Window.Height = DefaultWindowHeight
	}
	c.Gallery.Path = strings.TrimSpace(c.Gallery.Path)
	if c.Journal.MaxEvents <= 0 {
		c.Journal.MaxEvents = DefaultJournalLimit
	}
}

func (c AppConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log level: %q", c.Logging.Level)
	}
	if c.Tooltip.TransitionMS < 0 || c.Tooltip.TransitionMS > MaxTransitionMS {
		return fmt.Errorf("tooltip transition must be within 0..%d ms", MaxTransitionMS)
	}
	if c.Tooltip.Opacity < 0 || c.Tooltip.Opacity > 1 {
		return errors.New("tooltip opacity must be within 0..1")
	}
	if _, err := c.Tooltip.BackgroundColor(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Tooltip.ContainerID) == "" {
		return errors.New("tooltip container id is required")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.New("window size must be positive")
	}
	if c.Journal.MaxEvents < 0 {
		return errors.New("journal max events must not be negative")
	}

	return nil
}

// TransitionDuration returns the show/hide transition length.
func (c TooltipConfig) TransitionDuration() time.Duration {
	return time.Duration(c.TransitionMS) * time.Millisecond
}

// BackgroundColor parses Background. It returns nil without error when no
// colour is configured.
func (c TooltipConfig) BackgroundColor() (color.Color, error) {
	raw := strings.TrimSpace(c.Background)
	if raw == "" {
		return nil, nil
	}

	parsed, err := colorful.Hex(raw)
	if err != nil {
		return nil, fmt.Errorf("parse tooltip background %q: %w", raw, err)
	}
	r, g, b := parsed.Clamped().RGB255()
	opacity := c.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = DefaultOpacity
	}

	return color.NRGBA{R: r, G: g, B: b, A: uint8(opacity*255 + 0.5)}, nil
}

func Save(path string, cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp config: %w", err)
	}

	return nil
}
