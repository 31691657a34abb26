// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package host provides a single-threaded host loop that schedules
// [code.hybscloud.com/coop] tasks cooperatively.
//
// A [Scheduler] models one non-preemptible host thread. Submitted tasks
// enter a bounded lock-free inbox ([code.hybscloud.com/lfq] SPSC) and are
// admitted into a bounded run queue. Each [Scheduler.Poll] gives exactly one
// task one invocation; a task that yields goes to the back of the run
// queue, so tasks interleave at slice boundaries.
//
// # Threading
//
//   - Submit is the single producer: call it from one goroutine.
//   - Poll, Drain, Serve and Close are the single consumer: call them from one goroutine.
//   - Job accessors are safe from any goroutine.
//
// Submit returns [code.hybscloud.com/iox.ErrWouldBlock] when the inbox is
// full; [Scheduler.Serve] waits with [code.hybscloud.com/iox.Backoff] when
// there is nothing to run.
package host
