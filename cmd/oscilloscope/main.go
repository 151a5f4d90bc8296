package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/petems/oscilloscope/internal/app"
	"github.com/petems/oscilloscope/internal/audio"
	"github.com/petems/oscilloscope/internal/config"
	"github.com/petems/oscilloscope/internal/display"
	"github.com/petems/oscilloscope/internal/logging"
	"github.com/petems/oscilloscope/internal/permissions"
	"github.com/rs/zerolog"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func init() {
	// SDL has to be driven from the main OS thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "config file (.json or .yaml); defaults to the platform config dir")
	backend := flag.String("backend", "", "display backend: terminal or window")
	device := flag.String("device", "", "input device name")
	listDevices := flag.Bool("list-devices", false, "list input devices and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *backend != "" {
		cfg.Display.Backend = *backend
	}
	if *device != "" {
		cfg.Audio.DeviceID = *device
	}

	// The terminal backend owns the tty, so logs go to the file only.
	log := logging.NewWithLevel(cfg.LogLevel, cfg.Display.Backend != config.BackendTerminal || *listDevices)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	// macOS requires explicit microphone approval before capture works
	if err := permissions.EnsureMicrophone(); err != nil {
		log.Fatal().Err(err).Msg("Required permissions not granted")
	}

	if err := run(cfg, log, *listDevices); err != nil {
		log.Error().Err(err).Str("log_file", logging.Path()).Msg("Oscilloscope failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger, listDevices bool) error {
	capture, err := audio.New(cfg.Audio)
	if err != nil {
		return fmt.Errorf("initialize audio: %w", err)
	}
	defer capture.Close()

	if listDevices {
		devices, err := capture.ListDevices()
		if err != nil {
			return err
		}
		for _, d := range devices {
			marker := " "
			if d.Default {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, d.Name)
		}
		return nil
	}

	disp, err := display.Open(cfg.Display)
	if err != nil {
		return fmt.Errorf("open display: %w", err)
	}
	defer disp.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			log.Info().Msg("Shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	application := app.New(app.Config{
		Audio:   capture,
		Display: disp,
		Config:  cfg,
		Logger:  log,
	})

	log.Info().
		Str("version", Version).
		Str("commit", Commit).
		Str("backend", cfg.Display.Backend).
		Msg("Oscilloscope starting...")

	return application.Run(ctx)
}
