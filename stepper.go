// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"fmt"

	"code.hybscloud.com/iox"
)

// Stepper runs task invocations against one arena, clock and timeslice.
// All tasks driven through a Stepper share its Timeslice, the way tasks
// scheduled on one host thread share that thread's allotment.
//
// Begin may be called from any goroutine. Step must not be called
// concurrently: a Stepper models a single non-preemptible thread.
type Stepper struct {
	arena   *Arena
	clock   Clock
	slice   Timeslice
	initial uint64
	serials serials
}

// Option configures a Stepper.
type Option func(*Stepper)

// WithClock sets the clock slices are measured with. Default SystemClock.
func WithClock(c Clock) Option {
	return func(s *Stepper) { s.clock = c }
}

// WithTimeslice sets the host timeslice. Default a fresh Allotment.
func WithTimeslice(t Timeslice) Option {
	return func(s *Stepper) { s.slice = t }
}

// WithInitialBudget sets the first invocation's slice budget in bytes.
// Default InitialBudget. Zero is ignored.
func WithInitialBudget(n uint64) Option {
	return func(s *Stepper) {
		if n > 0 {
			s.initial = n
		}
	}
}

// NewStepper creates a Stepper allocating task buffers from arena.
func NewStepper(arena *Arena, opts ...Option) *Stepper {
	s := &Stepper{
		arena:   arena,
		clock:   SystemClock{},
		slice:   &Allotment{},
		initial: InitialBudget,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Arena returns the arena task buffers are allocated from.
func (s *Stepper) Arena() *Arena {
	return s.arena
}

// Begin starts a task transforming src with key. It is the only place
// arguments are validated.
//
// The task holds one reference on its buffer until it completes or is
// abandoned. If every descriptor and continuation of the task is dropped
// first, the reference is released after they are garbage collected.
//
// An empty src completes at once: Begin returns Result{Output: src} and a
// nil error without allocating. Otherwise Begin allocates the output buffer
// and returns the first Descriptor with iox.ErrMore, the request to
// schedule the first invocation; no byte is processed yet.
//
// Returns ErrInvalidArgument if key is outside [0,255] and ErrAllocation if
// the buffer cannot be allocated; no task exists in either case.
func (s *Stepper) Begin(src []byte, key int) (Result, Descriptor, error) {
	if key < 0 || key > 255 {
		return Result{}, Descriptor{}, fmt.Errorf("%w: key %d outside [0,255]", ErrInvalidArgument, key)
	}
	if len(src) == 0 {
		return Result{Output: src}, Descriptor{}, nil
	}
	h, err := s.arena.Alloc(len(src))
	if err != nil {
		return Result{}, Descriptor{}, err
	}
	d := Descriptor{
		ID:     s.serials.next(),
		Source: src,
		Key:    byte(key),
		Budget: s.initial,
		Buffer: h,
		lease:  newLease(s.arena, h),
	}
	return Result{}, d, iox.ErrMore
}

// Step runs one invocation of the task described by d.
//
// Slices of d.Budget bytes are processed and timed until either the source
// is exhausted or the Timeslice reports the allotment used up. On
// completion Step releases the task's buffer reference and returns the
// Result with a nil error. On yield it returns the next Descriptor, with a
// re-estimated budget and Yields incremented, and iox.ErrMore; the caller
// must pass exactly that descriptor to the next Step of the task.
//
// A descriptor whose offset lies beyond its source, or whose buffer is
// stale or of the wrong size, is rejected with ErrInvalidArgument before
// anything is written.
func (s *Stepper) Step(d Descriptor) (Result, Descriptor, error) {
	size := uint64(len(d.Source))
	if d.Offset > size {
		return Result{}, Descriptor{}, fmt.Errorf("%w: offset %d beyond source length %d", ErrInvalidArgument, d.Offset, size)
	}
	buf, err := s.arena.Bytes(d.Buffer)
	if err != nil {
		return Result{}, Descriptor{}, err
	}
	if uint64(len(buf)) != size {
		return Result{}, Descriptor{}, fmt.Errorf("%w: buffer %v holds %d bytes, source %d", ErrInvalidArgument, d.Buffer, len(buf), size)
	}

	start, i := d.Offset, d.Offset
	end := sliceEnd(i, d.Budget, size)
	total := 0
	for i < size {
		t0 := s.clock.Now()
		xorInto(buf[i:end], d.Source[i:end], d.Key)
		i = end
		if i == size {
			break
		}
		pct := Percent(s.clock.Now().Sub(t0))
		total += pct
		if s.slice.Consume(ClampPercent(pct)) {
			next := d
			next.Budget = Estimate(i-start, total)
			next.Offset = i
			next.Yields++
			return Result{}, next, iox.ErrMore
		}
		end = sliceEnd(i, d.Budget, size)
	}

	if err := s.release(d); err != nil {
		return Result{}, Descriptor{}, err
	}
	return Result{Output: buf, Yields: d.Yields}, Descriptor{}, nil
}

// sliceEnd returns the end of the slice starting at offset, clamped to
// size. A slice covers at least one byte.
func sliceEnd(offset, budget, size uint64) uint64 {
	end := offset + max(budget, 1)
	if end > size || end < offset {
		return size
	}
	return end
}

// xorInto sets dst[i] = src[i] ^ key. dst and src have equal length.
func xorInto(dst, src []byte, key byte) {
	for i, b := range src {
		dst[i] = b ^ key
	}
}
