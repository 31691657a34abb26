// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"fmt"
	"sync"
)

// ResourceName is the registry name of the arena used by Load and Upgrade.
const ResourceName = "coop_buf"

// Flags select how Open treats an existing registration.
type Flags uint8

const (
	// Create registers a new arena under the name.
	Create Flags = 1 << iota
	// Takeover returns the arena already registered under the name,
	// together with every buffer still in flight.
	Takeover
)

// registry is the process-wide set of named arenas.
var registry struct {
	mu     sync.Mutex
	arenas map[string]*Arena
}

// Open returns the arena registered under name.
//
// With Create only, the name must be free. With Takeover only, the name
// must already be registered; limit is ignored. With both, an existing
// arena is taken over and otherwise a new one is created. Re-opening with
// Takeover is idempotent.
func Open(name string, limit int, flags Flags) (*Arena, error) {
	if flags&(Create|Takeover) == 0 {
		return nil, fmt.Errorf("%w: open %q without Create or Takeover", ErrInvalidArgument, name)
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if a, ok := registry.arenas[name]; ok {
		if flags&Takeover == 0 {
			return nil, fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
		}
		return a, nil
	}
	if flags&Create == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	if registry.arenas == nil {
		registry.arenas = make(map[string]*Arena)
	}
	a := NewArena(name, limit)
	registry.arenas[name] = a
	return a, nil
}

// Load is the module load hook: it opens ResourceName with Create|Takeover.
func Load(limit int) (*Arena, error) {
	return Open(ResourceName, limit, Create|Takeover)
}

// Upgrade is the module upgrade hook: it takes over ResourceName so
// buffers of in-flight tasks survive the upgrade.
func Upgrade() (*Arena, error) {
	return Open(ResourceName, 0, Takeover)
}
