// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop_test

import (
	"errors"
	"sync"
	"testing"

	"code.hybscloud.com/coop"
)

func TestArenaAllocRelease(t *testing.T) {
	a := coop.NewArena("alloc", 0)

	h, err := a.Alloc(16)
	if err != nil {
		t.Fatalf("Alloc error: %v", err)
	}
	if h.IsZero() {
		t.Fatal("Alloc returned the zero handle")
	}
	buf, err := a.Bytes(h)
	if err != nil || len(buf) != 16 {
		t.Fatalf("Bytes got %d bytes, err %v", len(buf), err)
	}
	if a.Live() != 1 || a.InUse() != 16 {
		t.Fatalf("live=%d inUse=%d, want 1 and 16", a.Live(), a.InUse())
	}
	if err := a.Release(h); err != nil {
		t.Fatalf("Release error: %v", err)
	}
	if a.Live() != 0 || a.InUse() != 0 {
		t.Fatalf("live=%d inUse=%d after release, want 0 and 0", a.Live(), a.InUse())
	}
	if _, err := a.Bytes(h); !errors.Is(err, coop.ErrStaleHandle) {
		t.Fatalf("Bytes after release got %v, want ErrStaleHandle", err)
	}
	if err := a.Release(h); !errors.Is(err, coop.ErrInvalidArgument) {
		t.Fatalf("double release got %v, want ErrInvalidArgument", err)
	}
}

func TestArenaZeroHandle(t *testing.T) {
	a := coop.NewArena("zero", 0)
	if _, err := a.Bytes(coop.Handle{}); !errors.Is(err, coop.ErrStaleHandle) {
		t.Fatalf("got %v, want ErrStaleHandle", err)
	}
}

func TestArenaSlotReuseBumpsGeneration(t *testing.T) {
	a := coop.NewArena("reuse", 0)

	h1, _ := a.Alloc(4)
	a.Release(h1)
	h2, err := a.Alloc(8)
	if err != nil {
		t.Fatalf("Alloc error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("reused slot kept handle %v", h1)
	}
	if _, err := a.Bytes(h1); !errors.Is(err, coop.ErrStaleHandle) {
		t.Fatalf("stale handle aliases new buffer: %v", err)
	}
	if buf, _ := a.Bytes(h2); len(buf) != 8 {
		t.Fatalf("new buffer got %d bytes, want 8", len(buf))
	}
}

func TestArenaRetainKeepsData(t *testing.T) {
	a := coop.NewArena("retain", 0)

	h, _ := a.Alloc(3)
	buf, _ := a.Bytes(h)
	copy(buf, "abc")
	if err := a.Retain(h); err != nil {
		t.Fatalf("Retain error: %v", err)
	}
	a.Release(h)

	got, err := a.Bytes(h)
	if err != nil || string(got) != "abc" {
		t.Fatalf("retained buffer got %q, err %v", got, err)
	}
	a.Release(h)
	if a.Live() != 0 {
		t.Fatalf("live got %d, want 0", a.Live())
	}
	if string(buf) != "abc" {
		t.Fatalf("released data changed: %q", buf)
	}
}

func TestArenaLimit(t *testing.T) {
	a := coop.NewArena("limit", 10)

	h, err := a.Alloc(6)
	if err != nil {
		t.Fatalf("Alloc error: %v", err)
	}
	if _, err := a.Alloc(5); !errors.Is(err, coop.ErrAllocation) {
		t.Fatalf("over limit got %v, want ErrAllocation", err)
	}
	if _, err := a.Alloc(0); !errors.Is(err, coop.ErrAllocation) {
		t.Fatalf("zero size got %v, want ErrAllocation", err)
	}
	a.Release(h)
	if _, err := a.Alloc(10); err != nil {
		t.Fatalf("Alloc after release error: %v", err)
	}
}

func TestArenaConcurrent(t *testing.T) {
	a := coop.NewArena("concurrent", 0)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				h, err := a.Alloc(32)
				if err != nil {
					t.Errorf("Alloc error: %v", err)
					return
				}
				a.Retain(h)
				a.Release(h)
				a.Release(h)
			}
		}()
	}
	wg.Wait()
	if a.Live() != 0 || a.InUse() != 0 {
		t.Fatalf("live=%d inUse=%d, want 0 and 0", a.Live(), a.InUse())
	}
}

func TestArenaGenerationWraps(t *testing.T) {
	a := coop.NewArena("wrap", 0)
	h, err := a.Alloc(4)
	if err != nil {
		t.Fatalf("Alloc error: %v", err)
	}
	a.Release(h)
	coop.SetGeneration(a, 0, ^uint32(0))

	h2, err := a.Alloc(4)
	if err != nil {
		t.Fatalf("Alloc error: %v", err)
	}
	if h2.IsZero() {
		t.Fatal("wrapped generation produced the zero handle")
	}
	if _, err := a.Bytes(h2); err != nil {
		t.Fatalf("Bytes on wrapped handle: %v", err)
	}
	if err := a.Release(h2); err != nil {
		t.Fatalf("Release error: %v", err)
	}
}
