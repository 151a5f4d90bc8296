package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendTerminal = "terminal"
	BackendWindow   = "window"
)

type Config struct {
	LogLevel string        `json:"log_level" yaml:"log_level"`
	Audio    AudioConfig   `json:"audio" yaml:"audio"`
	Display  DisplayConfig `json:"display" yaml:"display"`
}

type AudioConfig struct {
	DeviceID        string `json:"device_id" yaml:"device_id"`             // "" picks the default input
	SampleRate      int    `json:"sample_rate" yaml:"sample_rate"`         // 0 uses the device default
	Channels        int    `json:"channels" yaml:"channels"`               // >1 is downmixed to mono
	FramesPerBuffer int    `json:"frames_per_buffer" yaml:"frames_per_buffer"`
}

type DisplayConfig struct {
	Backend      string  `json:"backend" yaml:"backend"`           // "terminal" or "window"
	RefreshRate  int     `json:"refresh_rate" yaml:"refresh_rate"` // target windows per second
	FrameDelayMs int     `json:"frame_delay_ms" yaml:"frame_delay_ms"`
	Width        int     `json:"width" yaml:"width"`
	Height       int     `json:"height" yaml:"height"`
	Title        string  `json:"title" yaml:"title"`
	Baseline     float32 `json:"baseline" yaml:"baseline"`
	Scale        float32 `json:"scale" yaml:"scale"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Audio: AudioConfig{
			DeviceID:        "",
			SampleRate:      0,
			Channels:        1,
			FramesPerBuffer: 256,
		},
		Display: DisplayConfig{
			Backend:      BackendTerminal,
			RefreshRate:  60,
			FrameDelayMs: 15,
			Width:        800,
			Height:       600,
			Title:        "Oscilloscope",
			Baseline:     200,
			Scale:        200,
		},
	}
}

// Load reads the config at path over the defaults. An empty path means the
// platform default location. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = configPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the capture and render loops depend on.
func (c *Config) Validate() error {
	switch c.Display.Backend {
	case BackendTerminal, BackendWindow:
	default:
		return fmt.Errorf("unknown display backend %q", c.Display.Backend)
	}
	if c.Display.RefreshRate <= 0 {
		return fmt.Errorf("refresh_rate must be positive, got %d", c.Display.RefreshRate)
	}
	if c.Display.FrameDelayMs <= 0 {
		return fmt.Errorf("frame_delay_ms must be positive, got %d", c.Display.FrameDelayMs)
	}
	if c.Audio.SampleRate < 0 {
		return fmt.Errorf("sample_rate must not be negative, got %d", c.Audio.SampleRate)
	}
	if c.Audio.Channels < 1 {
		return fmt.Errorf("channels must be at least 1, got %d", c.Audio.Channels)
	}
	if c.Audio.FramesPerBuffer <= 0 {
		return fmt.Errorf("frames_per_buffer must be positive, got %d", c.Audio.FramesPerBuffer)
	}
	return nil
}

// FrameDelay is the pause between redraws.
func (d DisplayConfig) FrameDelay() time.Duration {
	return time.Duration(d.FrameDelayMs) * time.Millisecond
}

// Save writes the config to the platform default location as JSON.
func (c *Config) Save() error {
	return c.SaveTo(configPath())
}

// SaveTo writes the config to path as JSON.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "oscilloscope", "config.json")
}
