// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a task until its first Continuation.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
// No invocation runs inside Step.
func Step(task kont.Expr[Result]) (Result, *kont.Suspension[Result]) {
	return kont.StepExpr(task)
}

// Advance runs the invocation the suspended Continuation stands for.
// Returns (result, nil) when the task completed, or (zero, next) when it
// yielded again. The suspension is consumed; resuming it twice panics.
func Advance(susp *kont.Suspension[Result]) (Result, *kont.Suspension[Result]) {
	if _, ok := susp.Op().(Continuation); !ok {
		panic("coop: unhandled effect in Advance")
	}
	return susp.Resume(resumeToken)
}

// Pending returns the descriptor a suspended task resumes from.
func Pending(susp *kont.Suspension[Result]) Descriptor {
	c, ok := susp.Op().(Continuation)
	if !ok {
		panic("coop: unhandled effect in Pending")
	}
	return c.Descriptor
}

// Abandon discards a suspended task that will never be resumed and drops
// its buffer reference at once, instead of when the suspension is
// collected. Other references to the buffer stay valid.
func (s *Stepper) Abandon(susp *kont.Suspension[Result]) error {
	d := Pending(susp)
	susp.Discard()
	return s.release(d)
}
