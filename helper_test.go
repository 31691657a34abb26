// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/coop"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// passClock advances by pass on every reading, so every measured slice
// appears to take exactly pass.
type passClock struct {
	now  time.Time
	pass time.Duration
}

func (c *passClock) Now() time.Time {
	c.now = c.now.Add(c.pass)
	return c.now
}

// exhausted is a Timeslice that is always used up.
type exhausted struct{}

func (exhausted) Consume(int) bool { return true }

// recordingSlice wraps a Timeslice and records every reported percent.
type recordingSlice struct {
	inner    coop.Timeslice
	reported []int
}

func (r *recordingSlice) Consume(pct int) bool {
	r.reported = append(r.reported, pct)
	return r.inner.Consume(pct)
}

func fill(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func xorOf(src []byte, key byte) []byte {
	out := make([]byte, len(src))
	for i, b := range src {
		out[i] = b ^ key
	}
	return out
}

// begin starts a task and fails the test unless it is pending.
func begin(tb testing.TB, st *coop.Stepper, src []byte, key int) coop.Descriptor {
	tb.Helper()
	_, d, err := st.Begin(src, key)
	if !errors.Is(err, iox.ErrMore) {
		tb.Fatalf("Begin error got %v, want ErrMore", err)
	}
	return d
}

// drive runs d to completion through Step, checking progress and yield
// monotonicity on the way. before is called ahead of every invocation.
func drive(tb testing.TB, st *coop.Stepper, d coop.Descriptor, before func(coop.Descriptor)) (coop.Result, []coop.Descriptor) {
	tb.Helper()
	var trail []coop.Descriptor
	for {
		trail = append(trail, d)
		if before != nil {
			before(d)
		}
		r, next, err := st.Step(d)
		if err == nil {
			return r, trail
		}
		if !errors.Is(err, iox.ErrMore) {
			tb.Fatalf("Step error: %v", err)
		}
		if next.Offset <= d.Offset {
			tb.Fatalf("offset did not advance: %d -> %d", d.Offset, next.Offset)
		}
		if next.Yields != d.Yields+1 {
			tb.Fatalf("yields got %d, want %d", next.Yields, d.Yields+1)
		}
		if next.Buffer != d.Buffer {
			tb.Fatalf("buffer changed across yield: %v -> %v", d.Buffer, next.Buffer)
		}
		d = next
	}
}

// execExpr drives a task to completion via the Step+Advance loop and
// counts the suspensions seen.
func execExpr(task kont.Expr[coop.Result]) (coop.Result, int) {
	result, susp := coop.Step(task)
	n := 0
	for susp != nil {
		n++
		result, susp = coop.Advance(susp)
	}
	return result, n
}
