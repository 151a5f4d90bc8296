// Package wave turns a continuous sample stream into fixed-size windows at
// roughly the display refresh rate.
package wave

// WindowSize is the number of samples in one rendered window.
const WindowSize = 512

// Sample is a single amplitude, nominally in [-1, 1]. It is never clamped.
type Sample = float32

// Window is one renderable frame of consecutive samples.
type Window [WindowSize]Sample

// Publisher receives completed windows. It is called on the audio thread and
// must not block.
type Publisher interface {
	Publish(w Window)
}

// CaptureInterval returns how many raw samples elapse between the start of
// successive capture cycles: sampleRate/displayRate, but never less than
// WindowSize.
func CaptureInterval(sampleRate, displayRate int) int {
	if displayRate <= 0 {
		return WindowSize
	}
	return max(sampleRate/displayRate, WindowSize)
}

// Accumulator collects the first WindowSize samples of every capture cycle
// and publishes them as a Window. Samples in the rest of the cycle are
// counted and dropped.
//
// Process is not safe for concurrent use; the audio driver serialises its
// callbacks.
type Accumulator struct {
	pub      Publisher
	interval int

	buf   Window
	n     int
	clock int

	published uint64
}

// NewAccumulator returns an Accumulator publishing to pub once per interval
// samples. Intervals shorter than WindowSize are raised to WindowSize.
func NewAccumulator(pub Publisher, interval int) *Accumulator {
	return &Accumulator{
		pub:      pub,
		interval: max(interval, WindowSize),
	}
}

// Process consumes the next chunk of the stream. Chunk boundaries carry no
// meaning.
func (a *Accumulator) Process(samples []Sample) {
	for _, s := range samples {
		if a.clock < WindowSize {
			a.buf[a.n] = s
			a.n++
			if a.n == WindowSize {
				a.pub.Publish(a.buf)
				a.n = 0
				a.published++
			}
		}
		a.clock++
		if a.clock == a.interval {
			a.clock = 0
		}
	}
}

// Interval returns the capture interval in samples.
func (a *Accumulator) Interval() int {
	return a.interval
}

// Published returns the number of windows published so far. Call it from
// the producer side or after the stream has stopped.
func (a *Accumulator) Published() uint64 {
	return a.published
}
