// Package display provides the drawing backends the render loop paints
// into: a terminal scope built on tcell and a desktop window built on SDL2.
package display

import (
	"errors"
	"fmt"
	"math"

	"github.com/petems/oscilloscope/internal/config"
	"github.com/petems/oscilloscope/internal/render"
)

// ErrClosed is returned once the user has asked the display to quit.
var ErrClosed = errors.New("display closed")

// Display is one drawing surface. Begin and End bracket a frame; both are
// called from the render loop only.
type Display interface {
	Begin() (render.Path, error)
	End(level render.Level) error
	Close() error
}

// Open creates the backend named by cfg.Backend.
func Open(cfg config.DisplayConfig) (Display, error) {
	switch cfg.Backend {
	case config.BackendTerminal:
		t, err := NewTerminal(cfg)
		if err != nil {
			return nil, err
		}
		return t, nil
	case config.BackendWindow:
		w, err := NewWindow(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	return nil, fmt.Errorf("unknown display backend %q", cfg.Backend)
}

// MappingFor returns the vertical mapping configured for cfg.
func MappingFor(cfg config.DisplayConfig) render.Mapping {
	return render.Mapping{Baseline: cfg.Baseline, Scale: cfg.Scale}
}

func levelText(l render.Level) string {
	return fmt.Sprintf("peak %s dBFS  rms %s dBFS", dbText(l.PeakDB()), dbText(l.RMSDB()))
}

func dbText(db float64) string {
	if math.IsInf(db, -1) {
		return "-inf"
	}
	return fmt.Sprintf("%5.1f", db)
}
