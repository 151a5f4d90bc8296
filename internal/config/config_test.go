package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Display.RefreshRate != 60 {
		t.Errorf("expected refresh rate 60, got %d", cfg.Display.RefreshRate)
	}
	if cfg.Display.FrameDelay() != 15*time.Millisecond {
		t.Errorf("expected 15ms frame delay, got %v", cfg.Display.FrameDelay())
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Display.Backend != BackendTerminal {
		t.Errorf("expected terminal backend, got %q", cfg.Display.Backend)
	}
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "json",
			file:    "config.json",
			content: `{"audio": {"device_id": "USB Mic", "channels": 2}, "display": {"backend": "window"}}`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `audio:
  device_id: USB Mic
  channels: 2
display:
  backend: window
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Audio.DeviceID != "USB Mic" {
				t.Errorf("expected device %q, got %q", "USB Mic", cfg.Audio.DeviceID)
			}
			if cfg.Audio.Channels != 2 {
				t.Errorf("expected 2 channels, got %d", cfg.Audio.Channels)
			}
			if cfg.Display.Backend != BackendWindow {
				t.Errorf("expected window backend, got %q", cfg.Display.Backend)
			}
			// Untouched fields keep their defaults.
			if cfg.Display.RefreshRate != 60 {
				t.Errorf("expected default refresh rate, got %d", cfg.Display.RefreshRate)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad json", `{"display": `},
		{"unknown backend", `{"display": {"backend": "hologram"}}`},
		{"zero refresh", `{"display": {"refresh_rate": 0}}`},
		{"zero channels", `{"audio": {"channels": 0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := Default()
	cfg.Audio.DeviceID = "Line In"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Audio.DeviceID != "Line In" {
		t.Errorf("expected device %q, got %q", "Line In", loaded.Audio.DeviceID)
	}
}
