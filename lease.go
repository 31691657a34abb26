// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import "runtime"

// lease is a task's reference on its buffer. Only the task's descriptors
// and continuations reach it. Once the last of them becomes unreachable
// without the task completing or being abandoned, a cleanup releases the
// reference, so a task the host never resumes does not pin its buffer.
type lease struct {
	arena   *Arena
	handle  Handle
	cleanup runtime.Cleanup
}

// leaseRef is what the cleanup releases. It must not reach the lease.
type leaseRef struct {
	arena  *Arena
	handle Handle
}

func newLease(a *Arena, h Handle) *lease {
	l := &lease{arena: a, handle: h}
	l.cleanup = runtime.AddCleanup(l, releaseLease, leaseRef{arena: a, handle: h})
	return l
}

// releaseLease runs on the cleanup goroutine. A stale handle means the
// reference was already dropped through the arena directly.
func releaseLease(r leaseRef) {
	_ = r.arena.Release(r.handle)
}

// release drops the task's reference on d.Buffer now and cancels the
// cleanup. Descriptors built by hand carry no lease and release directly.
func (s *Stepper) release(d Descriptor) error {
	if l := d.lease; l != nil && l.arena == s.arena && l.handle == d.Buffer {
		l.cleanup.Stop()
	}
	return s.arena.Release(d.Buffer)
}
