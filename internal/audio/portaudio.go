package audio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/petems/oscilloscope/internal/config"
)

type portAudioCapture struct {
	cfg    config.AudioConfig
	stream *portAudioStream
}

// New creates a new PortAudio-based audio capture
func New(cfg config.AudioConfig) (Capture, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &portAudioCapture{cfg: cfg}, nil
}

func (p *portAudioCapture) Start(ctx context.Context, deviceID string, sampleRate int, process func([]float32)) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	device, err := findDevice(deviceID)
	if err != nil {
		return nil, err
	}

	channels := max(p.cfg.Channels, 1)
	if device.MaxInputChannels < channels {
		return nil, fmt.Errorf("device %s has %d input channels, need %d", device.Name, device.MaxInputChannels, channels)
	}

	rate := float64(sampleRate)
	if sampleRate <= 0 {
		rate = device.DefaultSampleRate
	}

	frames := p.cfg.FramesPerBuffer
	if frames <= 0 {
		frames = 256
	}

	s := &portAudioStream{
		device:   device.Name,
		channels: channels,
		scratch:  make([]float32, frames),
		process:  process,
	}

	// Open stream: float32, callback mode so samples arrive on the audio thread
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      rate,
		FramesPerBuffer: frames,
	}, s.callback)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}
	s.stream = stream
	s.rate = int(stream.Info().SampleRate)

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}

	p.stream = s
	return s, nil
}

func findDevice(deviceID string) (*portaudio.DeviceInfo, error) {
	if deviceID == "" {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("failed to get default input device: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	for _, d := range devices {
		if d.Name == deviceID && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("device not found: %s", deviceID)
}

func (p *portAudioCapture) ListDevices() ([]AudioDevice, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	result := make([]AudioDevice, 0, len(devices))
	defaultDevice, _ := portaudio.DefaultInputDevice()

	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, AudioDevice{
				ID:      d.Name,
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}

	return result, nil
}

func (p *portAudioCapture) Close() error {
	if p.stream != nil {
		p.stream.Stop()
		p.stream = nil
	}
	return portaudio.Terminate()
}

type portAudioStream struct {
	stream   *portaudio.Stream
	device   string
	rate     int
	channels int
	scratch  []float32
	process  func([]float32)
	stopped  bool
}

// callback runs on the PortAudio thread. It must not block or allocate.
func (s *portAudioStream) callback(in []float32) {
	if s.channels == 1 {
		s.process(in)
		return
	}
	step := len(s.scratch) * s.channels
	for len(in) > 0 {
		n := min(len(in), step)
		s.process(downmixInterleaved(s.scratch, in[:n], s.channels))
		in = in[n:]
	}
}

func (s *portAudioStream) Device() string  { return s.device }
func (s *portAudioStream) SampleRate() int { return s.rate }

func (s *portAudioStream) Stop() error {
	if s.stopped {
		return nil
	}
	s.stopped = true
	if err := s.stream.Stop(); err != nil {
		s.stream.Close()
		return fmt.Errorf("failed to stop audio stream: %w", err)
	}
	return s.stream.Close()
}
