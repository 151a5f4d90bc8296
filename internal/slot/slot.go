// Package slot provides a lock-free single-producer, single-consumer
// "latest value" cell backed by three rotating buffers.
//
// The producer always writes into a buffer the consumer cannot see, then
// swaps it with the shared back buffer in one atomic operation. The consumer
// only swaps when the back buffer holds something new. Neither side waits on
// the other, and nothing is allocated after New.
//
// Thread assignment:
//   - Publish, InputBuffer, PublishInput: producer goroutine only
//   - Latest, Read, Updated: consumer goroutine only
package slot

import "sync/atomic"

const (
	indexMask = 0b011
	dirtyBit  = 0b100
)

// Slot holds the most recently published value of T.
type Slot[T any] struct {
	buffers [3]T

	// back is the index of the buffer owned by neither side, with dirtyBit set
	// when it holds a value the consumer has not picked up yet.
	back atomic.Uint32
	_    [60]byte

	// Producer-owned.
	input uint32
	_     [60]byte

	// Consumer-owned.
	output uint32
	_      [60]byte
}

// New returns a Slot whose three buffers all start as initial.
func New[T any](initial T) *Slot[T] {
	s := &Slot[T]{
		input:  0,
		output: 2,
	}
	for i := range s.buffers {
		s.buffers[i] = initial
	}
	s.back.Store(1)
	return s
}

// Publish makes v the latest value, discarding any value the consumer has
// not read yet. Never blocks.
func (s *Slot[T]) Publish(v T) {
	s.buffers[s.input] = v
	s.PublishInput()
}

// InputBuffer returns the buffer the producer currently owns. Writes to it
// become visible on the next PublishInput. The buffer holds stale data from
// an earlier rotation, so callers must overwrite all of it.
func (s *Slot[T]) InputBuffer() *T {
	return &s.buffers[s.input]
}

// PublishInput publishes the contents of InputBuffer.
func (s *Slot[T]) PublishInput() {
	prev := s.back.Swap(s.input | dirtyBit)
	s.input = prev & indexMask
}

// Updated reports whether a value was published since the last read.
func (s *Slot[T]) Updated() bool {
	return s.back.Load()&dirtyBit != 0
}

// Read returns a pointer to the latest value. The pointee belongs to the
// consumer until its next call to Read or Latest.
func (s *Slot[T]) Read() *T {
	if s.Updated() {
		prev := s.back.Swap(s.output)
		s.output = prev & indexMask
	}
	return &s.buffers[s.output]
}

// Latest returns a copy of the latest value.
func (s *Slot[T]) Latest() T {
	return *s.Read()
}
