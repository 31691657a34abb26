// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"code.hybscloud.com/kont"
)

// RunAll runs tasks to completion, interleaving them round-robin on the
// calling goroutine: each pass gives every pending task one invocation.
// Results are returned in task order. Does not spawn goroutines.
func RunAll(tasks ...kont.Expr[Result]) []Result {
	results := make([]Result, len(tasks))
	pending := make([]*kont.Suspension[Result], len(tasks))
	live := 0
	for i, task := range tasks {
		results[i], pending[i] = Step(task)
		if pending[i] != nil {
			live++
		}
	}
	for live > 0 {
		for i, susp := range pending {
			if susp == nil {
				continue
			}
			results[i], pending[i] = Advance(susp)
			if pending[i] == nil {
				live--
			}
		}
	}
	return results
}
