// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"errors"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// identityResume is the identity resume function for EffectFrame construction.
func identityResume(v kont.Erased) kont.Erased { return v }

// continueUnwind runs the invocation a Continuation stands for once the
// suspension is resumed. data is the Stepper, data2 the Descriptor.
func continueUnwind(data, data2, _ kont.Erased, _ kont.Erased) (kont.Erased, kont.Frame) {
	s := data.(*Stepper)
	result := s.invoke(data2.(Descriptor))
	return kont.Erased(result.Value), result.Frame
}

// exprContinue suspends on Continuation{d}; resumption runs Step(d).
func (s *Stepper) exprContinue(d Descriptor) kont.Expr[Result] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = s
	bf.Data2 = d
	bf.Unwind = continueUnwind
	ef := kont.AcquireEffectFrame()
	ef.Operation = Continuation{Descriptor: d}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[Result](ef)
}

// invoke runs one invocation and continues or completes the computation.
// Descriptors reaching invoke were produced by Begin or Step, so an error
// other than iox.ErrMore means the buffer was released behind the task's
// back.
func (s *Stepper) invoke(d Descriptor) kont.Expr[Result] {
	r, next, err := s.Step(d)
	if err == nil {
		return kont.ExprReturn(r)
	}
	if errors.Is(err, iox.ErrMore) {
		return s.exprContinue(next)
	}
	panic("coop: resumed task lost its buffer: " + err.Error())
}

// ExprTask starts a task and returns it as an Expr-world computation that
// suspends on Continuation before every invocation, the first included.
// Empty src yields an already completed computation.
//
// Argument and allocation errors are returned here, before any
// computation exists.
func (s *Stepper) ExprTask(src []byte, key int) (kont.Expr[Result], error) {
	r, d, err := s.Begin(src, key)
	if err == nil {
		return kont.ExprReturn(r), nil
	}
	if !errors.Is(err, iox.ErrMore) {
		return kont.Expr[Result]{}, err
	}
	return s.exprContinue(d), nil
}

// Task is the Cont-world form of ExprTask.
func (s *Stepper) Task(src []byte, key int) (kont.Eff[Result], error) {
	r, d, err := s.Begin(src, key)
	if err == nil {
		return kont.Pure(r), nil
	}
	if !errors.Is(err, iox.ErrMore) {
		var zero kont.Eff[Result]
		return zero, err
	}
	return s.effContinue(d), nil
}

// effContinue performs Continuation{d} and runs Step(d) once resumed.
func (s *Stepper) effContinue(d Descriptor) kont.Eff[Result] {
	return kont.Bind(kont.Perform(Continuation{Descriptor: d}), func(struct{}) kont.Eff[Result] {
		r, next, err := s.Step(d)
		if err == nil {
			return kont.Pure(r)
		}
		if errors.Is(err, iox.ErrMore) {
			return s.effContinue(next)
		}
		panic("coop: resumed task lost its buffer: " + err.Error())
	})
}
