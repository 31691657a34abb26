// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package host

import (
	"sync"

	"code.hybscloud.com/coop"
	"code.hybscloud.com/kont"
)

// Job is a task submitted to a Scheduler.
type Job struct {
	id   coop.Serial
	size int
	done chan struct{}

	mu        sync.Mutex
	susp      *kont.Suspension[coop.Result]
	pending   coop.Descriptor
	result    coop.Result
	finished  bool
	abandoned bool
	cancel    bool
}

// ID returns the task serial. Tasks on empty input complete at submission
// and have ID zero.
func (j *Job) ID() coop.Serial {
	return j.id
}

// Size returns the source length in bytes.
func (j *Job) Size() int {
	return j.size
}

// Done is closed once the job completed or was abandoned.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Result returns the task result. ok is false until the job completed, and
// stays false for an abandoned job.
func (j *Job) Result() (r coop.Result, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.finished && !j.abandoned
}

// Offset returns the number of bytes processed so far.
func (j *Job) Offset() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.finished && !j.abandoned {
		return uint64(j.size)
	}
	return j.pending.Offset
}

// Yields returns the number of times the task has yielded so far.
func (j *Job) Yields() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.finished && !j.abandoned {
		return j.result.Yields
	}
	return j.pending.Yields
}

// Abandon asks the scheduler to drop the job at its next turn instead of
// resuming it. The job's buffer is released then and Done is closed.
// Abandoning a finished job has no effect.
func (j *Job) Abandon() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.finished {
		j.cancel = true
	}
}

// wantsAbandon reports whether Abandon was called.
func (j *Job) wantsAbandon() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancel
}

// suspension returns the pending continuation.
func (j *Job) suspension() *kont.Suspension[coop.Result] {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.susp
}

// yielded records the continuation the task yielded with.
func (j *Job) yielded(susp *kont.Suspension[coop.Result]) {
	d := coop.Pending(susp)
	j.mu.Lock()
	j.susp = susp
	j.pending = d
	j.mu.Unlock()
}

// complete records the result and closes Done.
func (j *Job) complete(r coop.Result) {
	j.mu.Lock()
	j.susp = nil
	j.result = r
	j.finished = true
	j.mu.Unlock()
	close(j.done)
}

// drop marks the job abandoned and closes Done.
func (j *Job) drop() {
	j.mu.Lock()
	j.susp = nil
	j.finished = true
	j.abandoned = true
	j.mu.Unlock()
	close(j.done)
}
