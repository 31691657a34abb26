// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import "time"

// Timeslice is the host primitive a running invocation reports its time to.
// Consume records percent of the current allotment as used and reports
// whether the allotment is exhausted, in which case the invocation yields.
type Timeslice interface {
	Consume(percent int) bool
}

// Allotment is the default Timeslice. It accumulates reported percent and
// reports exhaustion at 100%, after which a fresh allotment begins.
//
// An Allotment models one host thread and is not safe for concurrent use.
type Allotment struct {
	used int
}

// Consume implements Timeslice.
func (a *Allotment) Consume(percent int) bool {
	a.used += percent
	if a.used < fullSlice {
		return false
	}
	a.used = 0
	return true
}

// Used returns the percent consumed from the current allotment.
func (a *Allotment) Used() int {
	return a.used
}

// Reset starts a fresh allotment.
func (a *Allotment) Reset() {
	a.used = 0
}

// Clock supplies the timestamps a slice is measured with.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now. Its readings carry the monotonic clock, so
// measured slices are unaffected by wall-clock adjustments.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}
