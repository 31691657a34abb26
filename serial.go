// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import "code.hybscloud.com/atomix"

// Serial identifies a task among the tasks of one Stepper. Serials start
// at 1 and increase with every Begin that schedules a task; zero marks a
// task that completed inside Begin and never got a descriptor.
type Serial = uint32

// serials numbers a Stepper's tasks. Begin may run on several goroutines.
type serials struct {
	last atomix.Uint32
}

func (c *serials) next() Serial {
	return c.last.Add(1)
}

// Started returns the number of tasks Begin has scheduled on s. Tasks on
// empty input complete inside Begin and are not counted.
func (s *Stepper) Started() uint32 {
	return s.serials.last.Load()
}
