// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"fmt"
	"sync"

	"code.hybscloud.com/atomix"
)

// Handle addresses a buffer owned by an Arena. The zero Handle is never
// valid. A handle goes stale once its buffer's last reference is released;
// a later allocation reusing the slot gets a different generation.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// String implements fmt.Stringer.
func (h Handle) String() string {
	return fmt.Sprintf("%d.%d", h.index, h.gen)
}

// slot is one arena entry. gen is bumped on every allocation so stale
// handles never alias a newer buffer.
type slot struct {
	data []byte
	refs uint32
	gen  uint32
}

// Arena owns the progress buffers of in-flight tasks. Each buffer is
// reference counted; Alloc hands out the first reference and the buffer is
// freed when Release drops the last one. Data already obtained through Bytes
// stays valid after release: freeing only detaches it from the arena.
//
// An Arena is safe for concurrent use.
type Arena struct {
	name  string
	limit int

	mu    sync.Mutex
	slots []slot
	free  []uint32
	inUse int

	// live mirrors the number of allocated slots for lock-free readers.
	live atomix.Uint32
}

// NewArena creates an unregistered arena. limit caps the total bytes of
// live buffers; zero means unlimited.
func NewArena(name string, limit int) *Arena {
	return &Arena{name: name, limit: max(limit, 0)}
}

// Name returns the name the arena was created with.
func (a *Arena) Name() string {
	return a.name
}

// Limit returns the byte limit, zero if unlimited.
func (a *Arena) Limit() int {
	return a.limit
}

// Alloc allocates a zeroed buffer of n bytes holding one reference.
// Returns ErrAllocation if n is not positive or the byte limit would be
// exceeded.
func (a *Arena) Alloc(n int) (Handle, error) {
	if n <= 0 {
		return Handle{}, fmt.Errorf("%w: size %d", ErrAllocation, n)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.limit > 0 && a.inUse+n > a.limit {
		return Handle{}, fmt.Errorf("%w: %d bytes exceeds arena %q limit (%d of %d in use)",
			ErrAllocation, n, a.name, a.inUse, a.limit)
	}
	var idx uint32
	if k := len(a.free); k > 0 {
		idx = a.free[k-1]
		a.free = a.free[:k-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}
	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 {
		// Zero marks the zero Handle.
		s.gen = 1
	}
	s.data = make([]byte, n)
	s.refs = 1
	a.inUse += n
	a.live.Add(1)
	return Handle{index: idx, gen: s.gen}, nil
}

// lookup returns the live slot for h. Must be called with a.mu held.
func (a *Arena) lookup(h Handle) (*slot, error) {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil, fmt.Errorf("%w %v", ErrStaleHandle, h)
	}
	s := &a.slots[h.index]
	if s.gen != h.gen || s.refs == 0 {
		return nil, fmt.Errorf("%w %v", ErrStaleHandle, h)
	}
	return s, nil
}

// Bytes returns the buffer addressed by h.
func (a *Arena) Bytes(h Handle) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.lookup(h)
	if err != nil {
		return nil, err
	}
	return s.data, nil
}

// Retain adds a reference to the buffer addressed by h.
func (a *Arena) Retain(h Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.lookup(h)
	if err != nil {
		return err
	}
	s.refs++
	return nil
}

// Release drops a reference to the buffer addressed by h, freeing the slot
// when it was the last one.
func (a *Arena) Release(h Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.lookup(h)
	if err != nil {
		return err
	}
	s.refs--
	if s.refs > 0 {
		return nil
	}
	a.inUse -= len(s.data)
	s.data = nil
	a.free = append(a.free, h.index)
	a.live.Add(^uint32(0))
	return nil
}

// Live returns the number of allocated buffers. It does not take the
// arena lock and may be called from metrics collectors.
func (a *Arena) Live() int {
	return int(a.live.Load())
}

// InUse returns the total bytes of allocated buffers.
func (a *Arena) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}
