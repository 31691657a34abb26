// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/coop"
	"code.hybscloud.com/iox"
)

func TestOpenCreateTakeover(t *testing.T) {
	a, err := coop.Open("registry_create", 64, coop.Create)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if a.Name() != "registry_create" || a.Limit() != 64 {
		t.Fatalf("got %q limit %d", a.Name(), a.Limit())
	}
	if _, err := coop.Open("registry_create", 64, coop.Create); !errors.Is(err, coop.ErrAlreadyRegistered) {
		t.Fatalf("second Create got %v, want ErrAlreadyRegistered", err)
	}
	b, err := coop.Open("registry_create", 0, coop.Takeover)
	if err != nil || b != a {
		t.Fatalf("Takeover got %p err %v, want %p", b, err, a)
	}
	c, err := coop.Open("registry_create", 0, coop.Create|coop.Takeover)
	if err != nil || c != a {
		t.Fatalf("Create|Takeover got %p err %v, want %p", c, err, a)
	}
}

func TestOpenTakeoverMissing(t *testing.T) {
	if _, err := coop.Open("registry_missing", 0, coop.Takeover); !errors.Is(err, coop.ErrNotRegistered) {
		t.Fatalf("got %v, want ErrNotRegistered", err)
	}
	if _, err := coop.Open("registry_missing", 0, 0); !errors.Is(err, coop.ErrInvalidArgument) {
		t.Fatalf("no flags got %v, want ErrInvalidArgument", err)
	}
}

// TestUpgradeKeepsInFlightTask starts a task on the loaded arena, upgrades,
// and finishes it with a stepper built on the taken-over arena.
func TestUpgradeKeepsInFlightTask(t *testing.T) {
	loaded, err := coop.Load(0)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	again, err := coop.Load(0)
	if err != nil || again != loaded {
		t.Fatalf("second Load got %p err %v, want %p", again, err, loaded)
	}

	src := fill(4096, 0x3C)
	old := coop.NewStepper(loaded, coop.WithTimeslice(exhausted{}), coop.WithInitialBudget(1024))
	_, d, err := old.Step(begin(t, old, src, 0xC3))
	if !errors.Is(err, iox.ErrMore) {
		t.Fatalf("got %v, want ErrMore", err)
	}

	upgraded, err := coop.Upgrade()
	if err != nil {
		t.Fatalf("Upgrade error: %v", err)
	}
	st := coop.NewStepper(upgraded)
	r, _ := drive(t, st, d, nil)
	for i, b := range r.Output {
		if b != 0xFF {
			t.Fatalf("output[%d] got %#x, want 0xff", i, b)
		}
	}
	if r.Yields != 1 {
		t.Fatalf("yields got %d, want 1", r.Yields)
	}
}
