// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package host

import (
	"context"

	"code.hybscloud.com/coop"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
	"go.uber.org/zap"
)

const (
	// DefaultCapacity is the default bound of both the inbox and the run queue.
	DefaultCapacity = 64
	// MinCapacity is the smallest bound an lfq SPSC queue accepts.
	MinCapacity = 2
)

// Scheduler runs coop tasks cooperatively on the goroutine that polls it.
type Scheduler struct {
	stepper  *coop.Stepper
	capacity int
	log      *zap.Logger
	metrics  *Metrics

	inbox   lfq.SPSC[*Job]
	runq    lfq.SPSC[*Job]
	running int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithCapacity bounds the inbox and the run queue. It is rounded up to a
// power of two, and to MinCapacity if smaller.
func WithCapacity(n int) Option {
	return func(s *Scheduler) { s.capacity = n }
}

// WithLogger sets the logger. Default zap.NewNop.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithMetrics sets the metrics the scheduler records into.
func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// New creates a Scheduler running tasks on stepper.
func New(stepper *coop.Stepper, opts ...Option) *Scheduler {
	s := &Scheduler{
		stepper:  stepper,
		capacity: DefaultCapacity,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.capacity = ceilPow2(max(s.capacity, MinCapacity))
	s.inbox.Init(s.capacity)
	s.runq.Init(s.capacity)
	return s
}

// ceilPow2 returns the smallest power of two ≥ n.
func ceilPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Submit starts a task transforming src with key and enqueues it.
//
// Argument and allocation errors are returned synchronously and no job is
// created. A task on empty input completes here. When the inbox is full,
// Submit releases the task and returns iox.ErrWouldBlock; retry after the
// consumer made progress.
func (s *Scheduler) Submit(src []byte, key int) (*Job, error) {
	task, err := s.stepper.ExprTask(src, key)
	if err != nil {
		return nil, err
	}
	j := &Job{size: len(src), done: make(chan struct{})}
	r, susp := coop.Step(task)
	if susp == nil {
		j.complete(r)
		s.metrics.submitted()
		s.metrics.completed()
		return j, nil
	}
	j.id = coop.Pending(susp).ID
	j.yielded(susp)
	if err := s.inbox.Enqueue(&j); err != nil {
		if rerr := s.stepper.Abandon(susp); rerr != nil {
			s.log.Warn("release rejected task", zap.Uint32("task", j.id), zap.Error(rerr))
		}
		return nil, err
	}
	s.metrics.submitted()
	s.log.Debug("task submitted", zap.Uint32("task", j.id), zap.Int("size", j.size), zap.Int("key", key))
	return j, nil
}

// Poll admits submitted jobs into the run queue and gives the job at its
// head one invocation. It reports whether any job was run or dropped.
func (s *Scheduler) Poll() bool {
	s.admit()
	j, err := s.runq.Dequeue()
	if err != nil {
		return false
	}
	s.running--
	if j.wantsAbandon() {
		s.abandon(j)
		return true
	}
	if s.invoke(j) {
		return true
	}
	if err := s.runq.Enqueue(&j); err != nil {
		panic("host: run queue overflow")
	}
	s.running++
	return true
}

// admit moves jobs from the inbox into the run queue while it has room.
func (s *Scheduler) admit() {
	for s.running < s.capacity {
		j, err := s.inbox.Dequeue()
		if err != nil {
			return
		}
		if err := s.runq.Enqueue(&j); err != nil {
			panic("host: run queue overflow")
		}
		s.running++
	}
}

// invoke runs one invocation of j and reports whether it finished.
func (s *Scheduler) invoke(j *Job) bool {
	susp := j.suspension()
	before := coop.Pending(susp)
	r, next := coop.Advance(susp)
	s.metrics.invoked()
	if next == nil {
		s.metrics.progressed(uint64(j.size)-before.Offset, 0, 0)
		s.metrics.completed()
		j.complete(r)
		s.log.Info("task completed",
			zap.Uint32("task", j.id),
			zap.Int("size", j.size),
			zap.Uint64("yields", r.Yields))
		return true
	}
	d := coop.Pending(next)
	j.yielded(next)
	s.metrics.progressed(d.Offset-before.Offset, d.Yields-before.Yields, d.Budget)
	s.log.Debug("task yielded",
		zap.Uint32("task", j.id),
		zap.Uint64("offset", d.Offset),
		zap.Uint64("budget", d.Budget),
		zap.Uint64("yields", d.Yields))
	return false
}

// abandon drops j and releases its buffer.
func (s *Scheduler) abandon(j *Job) {
	susp := j.suspension()
	if err := s.stepper.Abandon(susp); err != nil {
		s.log.Warn("release abandoned task", zap.Uint32("task", j.id), zap.Error(err))
	}
	j.drop()
	s.metrics.abandoned()
	s.log.Info("task abandoned", zap.Uint32("task", j.id), zap.Uint64("offset", j.Offset()))
}

// Drain polls until no job is left to run.
func (s *Scheduler) Drain() {
	for s.Poll() {
	}
}

// Serve polls until ctx is done, backing off while there is nothing to
// run. Jobs still queued when Serve returns stay queued; call Close to
// abandon them. Returns ctx.Err().
func (s *Scheduler) Serve(ctx context.Context) error {
	var bo iox.Backoff
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.Poll() {
			bo.Reset()
			continue
		}
		bo.Wait()
	}
}

// Close abandons every queued job, releasing their buffers.
func (s *Scheduler) Close() {
	for {
		j, err := s.runq.Dequeue()
		if err != nil {
			break
		}
		s.running--
		s.abandon(j)
	}
	for {
		j, err := s.inbox.Dequeue()
		if err != nil {
			return
		}
		s.abandon(j)
	}
}
