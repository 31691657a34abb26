// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package coop provides adaptive cooperative time-slicing for long-running,
// CPU-bound byte transforms on host threads that cannot be preempted.
//
// A task XORs every byte of a source buffer with a key byte. The work is
// chopped into bounded slices; after each slice the elapsed time is reported
// to the host's [Timeslice] and, once the allotment is exhausted, the task
// yields with a re-estimated slice budget. Progress and the output buffer
// survive across invocations through a [Descriptor] and an [Arena] handle.
//
// # Architecture
//
//   - Estimation: [Percent], [ClampPercent] and [Estimate] turn measured slice time into the next slice budget.
//   - Buffers: [Arena] owns reference-counted output regions addressed by [Handle]. [Open], [Load] and [Upgrade] keep a process-wide registry.
//   - Invocation: [Stepper.Begin] validates and schedules a task; [Stepper.Step] runs one invocation and returns [code.hybscloud.com/iox.ErrMore] when the task must be rescheduled.
//   - Continuations: [Stepper.ExprTask] and [Stepper.Task] express a task as a [code.hybscloud.com/kont] computation that suspends on a [Continuation] effect at every reschedule point.
//
// # Integration
//
//   - Stepping: [Step] and [Advance] run one invocation at a time, making tasks easy to drive from a host loop. [Stepper.Abandon] drops a task that will never be resumed.
//   - Blocking: [Exec] runs a task to completion; [RunAll] interleaves several tasks on the calling goroutine.
//
// # Example
//
//	st := coop.NewStepper(coop.NewArena("example", 0))
//	task, err := st.ExprTask(src, 0x55)
//	if err != nil {
//		return err // coop.ErrInvalidArgument or coop.ErrAllocation
//	}
//	result, susp := coop.Step(task)
//	for susp != nil {
//		// other work may run here
//		result, susp = coop.Advance(susp)
//	}
//	_ = result.Output
package coop
