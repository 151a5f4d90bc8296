package audio

import "testing"

func TestDownmixInterleavedMono(t *testing.T) {
	input := []float32{0.1, 0.2, 0.3, 0.4}
	got := downmixInterleaved(nil, input, 1)

	if len(got) != len(input) {
		t.Fatalf("expected %d samples, got %d", len(input), len(got))
	}
	if &got[0] != &input[0] {
		t.Fatal("expected mono input to be passed through without copying")
	}
}

func TestDownmixInterleavedStereo(t *testing.T) {
	input := []float32{
		0.0, 1.0,
		0.5, 0.5,
		1.0, 0.0,
		-0.5, 0.5,
	}

	expected := []float32{
		0.5, 0.5, 0.5, 0.0,
	}

	dst := make([]float32, 8)
	got := downmixInterleaved(dst, input, 2)
	if len(got) != len(expected) {
		t.Fatalf("expected %d frames, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("frame %d mismatch: expected %f, got %f", i, expected[i], got[i])
		}
	}
	if &got[0] != &dst[0] {
		t.Fatal("expected result to reuse dst")
	}
}

func TestDownmixInterleavedMoreChannels(t *testing.T) {
	input := []float32{
		1, 3, 5,
		2, 4, 6,
	}

	expected := []float32{3, 4}

	got := downmixInterleaved(make([]float32, 2), input, 3)
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("frame %d mismatch: expected %f, got %f", i, expected[i], got[i])
		}
	}
}

func TestCallbackSplitsLargeBuffers(t *testing.T) {
	var chunks [][]float32
	s := &portAudioStream{
		channels: 2,
		scratch:  make([]float32, 3),
		process: func(in []float32) {
			chunks = append(chunks, append([]float32(nil), in...))
		},
	}

	// 7 stereo frames through a 3-frame scratch buffer.
	in := make([]float32, 14)
	for i := range in {
		in[i] = float32(i / 2)
	}
	s.callback(in)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	var got []float32
	for _, c := range chunks {
		got = append(got, c...)
	}
	for i, v := range got {
		if v != float32(i) {
			t.Fatalf("frame %d: expected %d, got %f", i, i, v)
		}
	}
}

func TestCallbackMonoPassesThrough(t *testing.T) {
	calls := 0
	s := &portAudioStream{
		channels: 1,
		process:  func([]float32) { calls++ },
	}
	s.callback(make([]float32, 1024))
	if calls != 1 {
		t.Fatalf("expected a single call for mono input, got %d", calls)
	}
}

func TestCallbackDoesNotAllocate(t *testing.T) {
	s := &portAudioStream{
		channels: 2,
		scratch:  make([]float32, 256),
		process:  func([]float32) {},
	}
	in := make([]float32, 1024)
	allocs := testing.AllocsPerRun(100, func() {
		s.callback(in)
	})
	if allocs != 0 {
		t.Fatalf("expected 0 allocations, got %v", allocs)
	}
}
