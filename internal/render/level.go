package render

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Level is the peak and RMS amplitude of one window.
type Level struct {
	Peak float64
	RMS  float64
}

// PeakDB returns the peak in dBFS, -Inf for silence.
func (l Level) PeakDB() float64 { return ampToDB(l.Peak) }

// RMSDB returns the RMS level in dBFS, -Inf for silence.
func (l Level) RMSDB() float64 { return ampToDB(l.RMS) }

func ampToDB(v float64) float64 {
	if v == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

// Meter measures window levels using reusable scratch space. It is owned by
// the render side.
type Meter struct {
	samples []float64
	squares []float64
}

// NewMeter returns a Meter sized for windows of n samples.
func NewMeter(n int) *Meter {
	return &Meter{
		samples: make([]float64, n),
		squares: make([]float64, n),
	}
}

// Measure returns the level of w.
func (m *Meter) Measure(w []float32) Level {
	if len(w) == 0 {
		return Level{}
	}
	if len(w) > len(m.samples) {
		m.samples = make([]float64, len(w))
		m.squares = make([]float64, len(w))
	}
	x := m.samples[:len(w)]
	sq := m.squares[:len(w)]

	var peak float64
	for i, v := range w {
		x[i] = float64(v)
		peak = max(peak, math.Abs(x[i]))
	}

	vecmath.MulBlock(sq, x, x)
	var sum float64
	for _, v := range sq {
		sum += v
	}

	return Level{
		Peak: peak,
		RMS:  math.Sqrt(sum / float64(len(w))),
	}
}
