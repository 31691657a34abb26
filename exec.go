// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"code.hybscloud.com/kont"
)

// continuationHandler implements kont.Handler for Continuation effects by
// resuming immediately.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type continuationHandler[R any] struct{}

// Dispatch implements kont.Handler via structural type assertion.
func (continuationHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if _, ok := op.(Continuation); !ok {
		panic("coop: unhandled effect in continuationHandler")
	}
	return resumeToken, true
}

// Exec runs an Expr-world task to completion on the calling goroutine,
// resuming every Continuation at once. Yields still happen and are
// counted; nothing else runs between them.
func Exec(task kont.Expr[Result]) Result {
	return kont.HandleExpr(task, continuationHandler[Result]{})
}

// ExecEff runs a Cont-world task to completion on the calling goroutine.
func ExecEff(task kont.Eff[Result]) Result {
	return kont.Handle(task, continuationHandler[Result]{})
}
