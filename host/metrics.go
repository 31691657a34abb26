// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package host

import (
	"code.hybscloud.com/coop"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for a Scheduler. A nil *Metrics records
// nothing.
//
// Metrics:
//   - coop_tasks_submitted_total - tasks accepted by Submit
//   - coop_tasks_completed_total - tasks that produced a result
//   - coop_tasks_abandoned_total - tasks dropped before completion
//   - coop_invocations_total - task invocations run
//   - coop_yields_total - suspensions at timeslice exhaustion
//   - coop_bytes_processed_total - bytes transformed
//   - coop_slice_budget_bytes - re-estimated slice budgets
//   - coop_arena_live_buffers - buffers allocated in the arena
type Metrics struct {
	Submitted   prometheus.Counter
	Completed   prometheus.Counter
	Abandoned   prometheus.Counter
	Invocations prometheus.Counter
	Yields      prometheus.Counter
	Bytes       prometheus.Counter
	Budget      prometheus.Histogram
}

// NewMetrics creates metrics registered with reg. A nil reg creates
// unregistered metrics. arena, if not nil, backs the live buffer gauge.
func NewMetrics(reg prometheus.Registerer, arena *coop.Arena) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{
		Submitted: f.NewCounter(prometheus.CounterOpts{
			Name: "coop_tasks_submitted_total",
			Help: "Total number of tasks accepted by the scheduler",
		}),
		Completed: f.NewCounter(prometheus.CounterOpts{
			Name: "coop_tasks_completed_total",
			Help: "Total number of tasks that produced a result",
		}),
		Abandoned: f.NewCounter(prometheus.CounterOpts{
			Name: "coop_tasks_abandoned_total",
			Help: "Total number of tasks dropped before completion",
		}),
		Invocations: f.NewCounter(prometheus.CounterOpts{
			Name: "coop_invocations_total",
			Help: "Total number of task invocations run",
		}),
		Yields: f.NewCounter(prometheus.CounterOpts{
			Name: "coop_yields_total",
			Help: "Total number of task suspensions at timeslice exhaustion",
		}),
		Bytes: f.NewCounter(prometheus.CounterOpts{
			Name: "coop_bytes_processed_total",
			Help: "Total number of bytes transformed",
		}),
		Budget: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "coop_slice_budget_bytes",
			Help:    "Slice budgets re-estimated at yield",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KiB to 256MiB
		}),
	}
	if arena != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "coop_arena_live_buffers",
			Help: "Number of task buffers allocated in the arena",
		}, func() float64 {
			return float64(arena.Live())
		})
	}
	return m
}

func (m *Metrics) submitted() {
	if m != nil {
		m.Submitted.Inc()
	}
}

func (m *Metrics) completed() {
	if m != nil {
		m.Completed.Inc()
	}
}

func (m *Metrics) abandoned() {
	if m != nil {
		m.Abandoned.Inc()
	}
}

func (m *Metrics) invoked() {
	if m != nil {
		m.Invocations.Inc()
	}
}

// progressed records one invocation's bytes and yields. A zero budget is
// not observed: the task completed.
func (m *Metrics) progressed(bytes, yields, budget uint64) {
	if m == nil {
		return
	}
	m.Bytes.Add(float64(bytes))
	m.Yields.Add(float64(yields))
	if budget > 0 {
		m.Budget.Observe(float64(budget))
	}
}
