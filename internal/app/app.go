package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petems/oscilloscope/internal/audio"
	"github.com/petems/oscilloscope/internal/config"
	"github.com/petems/oscilloscope/internal/display"
	"github.com/petems/oscilloscope/internal/render"
	"github.com/petems/oscilloscope/internal/slot"
	"github.com/petems/oscilloscope/internal/wave"
	"github.com/rs/zerolog"
)

type Config struct {
	Audio   audio.Capture
	Display display.Display
	Config  *config.Config
	Logger  zerolog.Logger
}

type App struct {
	audio   audio.Capture
	display display.Display
	cfg     *config.Config
	log     zerolog.Logger

	mu      sync.Mutex
	running bool
	frames  uint64
}

func New(cfg Config) *App {
	return &App{
		audio:   cfg.Audio,
		display: cfg.Display,
		cfg:     cfg.Config,
		log:     cfg.Logger,
	}
}

// Run captures audio and redraws the latest window until ctx is cancelled
// or the display is closed. The render loop runs on the calling goroutine.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("already running")
	}
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	latest := slot.New(wave.Window{})

	// The accumulator is created once the stream reports its real rate, but
	// the callback may fire as soon as the stream starts. Samples before that
	// are dropped.
	var acc atomic.Pointer[wave.Accumulator]
	process := func(samples []float32) {
		if w := acc.Load(); w != nil {
			w.Process(samples)
		}
	}

	stream, err := a.audio.Start(ctx, a.cfg.Audio.DeviceID, a.cfg.Audio.SampleRate, process)
	if err != nil {
		return fmt.Errorf("start capture: %w", err)
	}

	interval := wave.CaptureInterval(stream.SampleRate(), a.cfg.Display.RefreshRate)
	accumulator := wave.NewAccumulator(latest, interval)
	acc.Store(accumulator)

	a.log.Info().
		Str("device", stream.Device()).
		Int("sample_rate", stream.SampleRate()).
		Int("capture_interval", interval).
		Msg("Using input device")

	loopErr := a.renderLoop(ctx, render.New(latest, display.MappingFor(a.cfg.Display)))

	if err := stream.Stop(); err != nil {
		a.log.Error().Err(err).Msg("Failed to stop capture")
	}
	a.log.Info().
		Uint64("windows", accumulator.Published()).
		Uint64("frames", a.Frames()).
		Msg("Capture stopped")

	return loopErr
}

func (a *App) renderLoop(ctx context.Context, r *render.Renderer) error {
	ticker := time.NewTicker(a.cfg.Display.FrameDelay())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			path, err := a.display.Begin()
			if errors.Is(err, display.ErrClosed) {
				a.log.Info().Msg("Display closed")
				return nil
			}
			if err != nil {
				return fmt.Errorf("begin frame: %w", err)
			}

			level := r.Frame(path)
			if err := a.display.End(level); err != nil {
				return fmt.Errorf("end frame: %w", err)
			}

			a.mu.Lock()
			a.frames++
			a.mu.Unlock()
		}
	}
}

// Frames returns the number of frames drawn so far.
func (a *App) Frames() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames
}

func (a *App) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

func (a *App) ListDevices() ([]audio.AudioDevice, error) {
	return a.audio.ListDevices()
}
