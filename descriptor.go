// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

// Descriptor carries a task's state from one invocation to the next.
// It is never modified during an invocation; each yield produces a new one
// pointing at the same buffer.
type Descriptor struct {
	// ID is the task's serial.
	ID Serial
	// Source is the read-only input. It is never written.
	Source []byte
	// Key is XORed into every byte.
	Key byte
	// Budget is the estimated number of bytes one slice may process.
	Budget uint64
	// Offset is the index of the next unprocessed byte, 0 ≤ Offset ≤ len(Source).
	Offset uint64
	// Buffer addresses the output region in the stepper's arena.
	Buffer Handle
	// Yields counts the suspensions so far.
	Yields uint64

	lease *lease
}

// Remaining returns the number of bytes still to be processed.
func (d Descriptor) Remaining() uint64 {
	size := uint64(len(d.Source))
	if d.Offset >= size {
		return 0
	}
	return size - d.Offset
}

// Result is a completed task. Output must be treated as immutable.
type Result struct {
	Output []byte
	Yields uint64
}
