// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package host_test

import (
	"sync"
	"time"

	"code.hybscloud.com/coop"
	"code.hybscloud.com/coop/host"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// passClock advances by pass on every reading.
type passClock struct {
	mu   sync.Mutex
	now  time.Time
	pass time.Duration
}

func (c *passClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.pass)
	return c.now
}

// fixture is a scheduler wired to a private arena, registry and observed
// logger. Every slice appears to take 500µs, so a task yields after every
// second slice.
type fixture struct {
	arena   *coop.Arena
	stepper *coop.Stepper
	metrics *host.Metrics
	reg     *prometheus.Registry
	logs    *observer.ObservedLogs
	sched   *host.Scheduler
}

func newFixture(budget uint64, opts ...host.Option) *fixture {
	f := &fixture{arena: coop.NewArena("test", 0), reg: prometheus.NewRegistry()}
	f.stepper = coop.NewStepper(f.arena,
		coop.WithClock(&passClock{pass: 500 * time.Microsecond}),
		coop.WithInitialBudget(budget))
	f.metrics = host.NewMetrics(f.reg, f.arena)
	core, logs := observer.New(zapcore.DebugLevel)
	f.logs = logs
	opts = append([]host.Option{host.WithLogger(zap.New(core)), host.WithMetrics(f.metrics)}, opts...)
	f.sched = host.New(f.stepper, opts...)
	return f
}

func fill(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
	return b
}

func xorOf(src []byte, key byte) []byte {
	out := make([]byte, len(src))
	for i, b := range src {
		out[i] = b ^ key
	}
	return out
}
