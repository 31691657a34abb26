// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the coopxor commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"code.hybscloud.com/coop"
	"code.hybscloud.com/coop/host"
	"code.hybscloud.com/coop/internal/config"
	"code.hybscloud.com/coop/internal/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

// options are the flags shared by every command.
type options struct {
	configPath  string
	logLevel    string
	metricsAddr string
}

// NewRootCommand creates the coopxor command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "coopxor",
		Short: "XOR byte streams on a cooperative time-sliced scheduler",
		Long: `coopxor transforms byte buffers in resumable tasks that yield whenever
their share of the host timeslice is used up, re-estimating how much work
fits into the next slice from the time the last ones took.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("coopxor version {{.Version}}\n")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level")
	root.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /metrics on this address")

	root.AddCommand(newXorCommand(opts), newBenchCommand(opts))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// stack is the scheduler stack one command runs on.
type stack struct {
	cfg     *config.Config
	log     *zap.Logger
	arena   *coop.Arena
	sched   *host.Scheduler
	metrics *host.Metrics
	reg     *prometheus.Registry
	srv     *http.Server
	addr    string
}

// setup loads the configuration and wires the arena, stepper, scheduler,
// logger and metrics. Log output goes to stderr.
func setup(opts *options, stderr io.Writer) (*stack, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("run_id", uuid.NewString()))

	arena, err := coop.Open(cfg.Arena.Name, cfg.Arena.LimitBytes, coop.Create|coop.Takeover)
	if err != nil {
		return nil, fmt.Errorf("failed to open arena: %w", err)
	}
	if arena.Limit() != cfg.Arena.LimitBytes {
		log.Warn("arena taken over with a different limit; configured limit ignored",
			zap.String("arena", arena.Name()),
			zap.Int("limit_bytes", arena.Limit()),
			zap.Int("configured_limit_bytes", cfg.Arena.LimitBytes))
	}
	stepper := coop.NewStepper(arena, coop.WithInitialBudget(cfg.Stepper.InitialBudget))

	rt := &stack{cfg: cfg, log: log, arena: arena, reg: prometheus.NewRegistry()}
	rt.metrics = host.NewMetrics(rt.reg, arena)
	rt.sched = host.New(stepper,
		host.WithCapacity(cfg.Scheduler.Capacity),
		host.WithLogger(log.Named("host")),
		host.WithMetrics(rt.metrics))

	if cfg.Metrics.Addr != "" {
		if err := rt.serveMetrics(cfg.Metrics.Addr); err != nil {
			return nil, err
		}
	}
	return rt, nil
}

// serveMetrics starts the /metrics endpoint.
func (rt *stack) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(rt.reg, promhttp.HandlerOpts{Registry: rt.reg}))
	rt.addr = ln.Addr().String()
	rt.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := rt.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.log.Error("metrics server failed", zap.Error(err))
		}
	}()
	rt.log.Info("serving metrics", zap.String("addr", rt.addr))
	return nil
}

// close abandons unfinished jobs and stops the metrics endpoint.
func (rt *stack) close() {
	rt.sched.Close()
	if rt.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.srv.Shutdown(ctx)
	}
	_ = rt.log.Sync()
}

// submit submits src, polling the scheduler while its inbox is full.
func (rt *stack) submit(src []byte, key int) (*host.Job, error) {
	for {
		j, err := rt.sched.Submit(src, key)
		if !isWouldBlock(err) {
			return j, err
		}
		if !rt.sched.Poll() {
			return nil, err
		}
	}
}
