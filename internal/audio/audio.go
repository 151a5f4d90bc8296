package audio

import "context"

// Capture defines the interface for audio capture
type Capture interface {
	// Start opens deviceID ("" for the default input) and calls process from
	// the driver's audio thread with mono samples. Calls to process are
	// serialised. sampleRate 0 uses the device default.
	Start(ctx context.Context, deviceID string, sampleRate int, process func([]float32)) (Stream, error)
	ListDevices() ([]AudioDevice, error)
	Close() error
}

// Stream is a running input stream.
type Stream interface {
	Device() string
	SampleRate() int
	Stop() error
}

// AudioDevice represents an audio input device
type AudioDevice struct {
	ID      string
	Name    string
	Default bool
}

// downmixInterleaved averages interleaved frames of in into dst and returns
// dst[:frames]. Mono input is returned as is. dst must hold
// len(in)/channels samples.
func downmixInterleaved(dst, in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	frames := len(in) / channels
	out := dst[:frames]
	scale := 1 / float32(channels)
	for f := 0; f < frames; f++ {
		var sum float32
		for _, v := range in[f*channels : (f+1)*channels] {
			sum += v
		}
		out[f] = sum * scale
	}
	return out
}
