// Package render turns the latest published window into a polyline for a
// drawing backend.
package render

import (
	"github.com/petems/oscilloscope/internal/wave"
)

// Path is the drawing collaborator for one frame.
type Path interface {
	MoveTo(x, y float32)
	LineTo(x, y float32)
	Stroke()
}

// Source hands out the latest window. The pointer stays valid until the
// next call.
type Source interface {
	Read() *wave.Window
}

// Mapping places amplitudes vertically: a sample a is drawn at
// Baseline - a*Scale.
type Mapping struct {
	Baseline float32
	Scale    float32
}

// DefaultMapping puts silence at y=200 and full scale 200 units away.
var DefaultMapping = Mapping{Baseline: 200, Scale: 200}

// Y returns the vertical position for amplitude a.
func (m Mapping) Y(a wave.Sample) float32 {
	return m.Baseline - a*m.Scale
}

// Height is the logical height needed to show [-1, 1] without clipping.
func (m Mapping) Height() float32 {
	return m.Baseline + m.Scale
}

// Trace draws w as a connected polyline, one point per sample, with the
// sample index as x.
func Trace(p Path, w *wave.Window, m Mapping) {
	p.MoveTo(0, m.Y(w[0]))
	for i := 1; i < len(w); i++ {
		p.LineTo(float32(i), m.Y(w[i]))
	}
	p.Stroke()
}

// Renderer draws one independent frame per call from the latest window.
type Renderer struct {
	src     Source
	mapping Mapping
	meter   *Meter
}

// New returns a Renderer reading from src.
func New(src Source, m Mapping) *Renderer {
	return &Renderer{
		src:     src,
		mapping: m,
		meter:   NewMeter(wave.WindowSize),
	}
}

// Frame reads the latest window once, traces it onto p and returns its
// level.
func (r *Renderer) Frame(p Path) Level {
	w := r.src.Read()
	Trace(p, w, r.mapping)
	return r.meter.Measure(w[:])
}

// Mapping returns the vertical mapping in use.
func (r *Renderer) Mapping() Mapping {
	return r.mapping
}
