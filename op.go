// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"code.hybscloud.com/kont"
)

// Continuation is the effect operation a task performs at every reschedule
// point. Descriptor is where the next invocation resumes; inspecting it
// does not advance the task.
//
// Resuming the suspension runs the next invocation. The resume value is
// ignored.
type Continuation struct {
	kont.Phantom[struct{}]
	Descriptor Descriptor
}

// resumeToken is the pre-boxed value continuations are resumed with,
// avoiding a per-resume heap escape.
var resumeToken kont.Resumed = struct{}{}
