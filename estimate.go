// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import "time"

// InitialBudget is the slice budget, in bytes, of a task's first invocation.
const InitialBudget = 4 << 20

const (
	// percentDivisor converts elapsed microseconds into percent of a timeslice.
	percentDivisor = 10
	// fullSlice is one whole timeslice, in percent.
	fullSlice = 100
)

// Percent expresses elapsed as a percentage of one timeslice:
// elapsed microseconds divided by 10. The result is not clamped;
// a negative elapsed time counts as zero.
func Percent(elapsed time.Duration) int {
	us := elapsed.Microseconds()
	if us < 0 {
		return 0
	}
	return int(us / percentDivisor)
}

// ClampPercent clamps pct to [1, 100], the range reported to a Timeslice.
// A slice that measured as free still costs 1%.
func ClampPercent(pct int) int {
	return min(max(pct, 1), fullSlice)
}

// Estimate computes the next slice budget from the bytes processed since the
// last yield and the cumulative percent measured over the same span.
//
// At or below 100% the budget is what was processed. Between 100% and 199%
// it shrinks by the overrun fraction; from 200% on it is divided by the
// whole number of timeslices used. The two branches are deliberately not
// continuous at 200%. The result is never below 1 byte.
func Estimate(processed uint64, cumulative int) uint64 {
	next := processed
	if cumulative > fullSlice {
		m := uint64(cumulative / fullSlice)
		if m == 1 {
			next -= processed * uint64(cumulative-fullSlice) / fullSlice
		} else {
			next = processed / m
		}
	}
	return max(next, 1)
}
