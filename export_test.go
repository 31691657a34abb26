// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

// SetGeneration sets the generation of a free slot, as if it had been
// reused that many times.
func SetGeneration(a *Arena, index int, gen uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.slots[index].gen = gen
}
