package slot

import (
	"sync"
	"testing"
)

type frame [64]uint32

func filled(v uint32) frame {
	var f frame
	for i := range f {
		f[i] = v
	}
	return f
}

func TestLatestBeforePublishReturnsInitial(t *testing.T) {
	s := New(frame{})
	if s.Updated() {
		t.Fatal("new slot should not report an update")
	}
	got := s.Latest()
	if got != (frame{}) {
		t.Fatalf("expected zero frame, got %v", got[:4])
	}
}

func TestLatestReturnsMostRecent(t *testing.T) {
	s := New(frame{})
	s.Publish(filled(1))
	s.Publish(filled(2))
	s.Publish(filled(3))

	if !s.Updated() {
		t.Fatal("expected Updated after Publish")
	}
	if got := s.Latest(); got != filled(3) {
		t.Fatalf("expected frame 3, got %d", got[0])
	}
	if s.Updated() {
		t.Fatal("Updated should clear after a read")
	}
	// Polling faster than publishing repeats the last value.
	if got := s.Latest(); got != filled(3) {
		t.Fatalf("expected frame 3 again, got %d", got[0])
	}
}

func TestReadPointerStableUntilNextRead(t *testing.T) {
	s := New(frame{})
	s.Publish(filled(7))
	p := s.Read()
	s.Publish(filled(8))
	s.Publish(filled(9))
	if p[0] != 7 {
		t.Fatalf("consumer buffer was overwritten: got %d", p[0])
	}
	if got := s.Read(); got[0] != 9 {
		t.Fatalf("expected 9, got %d", got[0])
	}
}

func TestInputBufferInPlace(t *testing.T) {
	s := New(frame{})
	buf := s.InputBuffer()
	*buf = filled(42)
	s.PublishInput()

	if got := s.Latest(); got != filled(42) {
		t.Fatalf("expected 42, got %d", got[0])
	}
	if s.InputBuffer() == buf {
		t.Fatal("producer should own a different buffer after publishing")
	}
}

func TestBuffersNeverShared(t *testing.T) {
	s := New(frame{})
	for i := 0; i < 10; i++ {
		s.Publish(filled(uint32(i)))
		if i%3 == 0 {
			s.Read()
		}
		back := s.back.Load() & indexMask
		if s.input == s.output || s.input == back || s.output == back {
			t.Fatalf("iteration %d: overlapping ownership input=%d output=%d back=%d",
				i, s.input, s.output, back)
		}
	}
}

func TestPublishDoesNotAllocate(t *testing.T) {
	s := New(frame{})
	f := filled(5)
	allocs := testing.AllocsPerRun(100, func() {
		s.Publish(f)
		_ = s.Read()
	})
	if allocs != 0 {
		t.Fatalf("expected 0 allocations, got %v", allocs)
	}
}

// TestConcurrentNoTornReads publishes frames whose elements all carry the
// same sequence number and checks that every read is uniform and that
// sequence numbers never go backwards.
func TestConcurrentNoTornReads(t *testing.T) {
	const publishes = 20000

	s := New(frame{})
	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := uint32(1); i <= publishes; i++ {
			s.Publish(filled(i))
		}
	}()

	var last uint32
	reads := 0
	check := func() bool {
		f := s.Read()
		v := f[0]
		for j, x := range f {
			if x != v {
				t.Errorf("torn read: element %d = %d, element 0 = %d", j, x, v)
				return false
			}
		}
		if v < last {
			t.Errorf("sequence went backwards: %d after %d", v, last)
			return false
		}
		last = v
		reads++
		return true
	}

loop:
	for {
		select {
		case <-done:
			break loop
		default:
			if !check() {
				break loop
			}
		}
	}
	wg.Wait()

	check()
	if last != publishes {
		t.Errorf("final read should see the last publish %d, got %d", publishes, last)
	}
	if reads == 0 {
		t.Error("consumer never ran")
	}
}
