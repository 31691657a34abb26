// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"time"

	"code.hybscloud.com/coop/host"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBenchCommand(opts *options) *cobra.Command {
	var (
		size  int
		tasks int
		key   int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run synthetic tasks interleaved on one scheduler",
		Long: `Submits --tasks tasks of --size bytes each and runs them to completion,
interleaved on a single polling loop. Reports per-task yields and the
overall throughput.

Examples:
  coopxor bench --size 67108864 --tasks 4
  coopxor bench --size 1048576 --tasks 32 --metrics-addr :9100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size < 0 || tasks < 1 {
				return fmt.Errorf("invalid bench shape: size %d, tasks %d", size, tasks)
			}
			return runBench(cmd, opts, size, tasks, key)
		},
	}
	cmd.Flags().IntVar(&size, "size", 16<<20, "bytes per task")
	cmd.Flags().IntVar(&tasks, "tasks", 4, "number of tasks")
	cmd.Flags().IntVar(&key, "key", 0x5a, "key byte, 0-255")
	return cmd
}

func runBench(cmd *cobra.Command, opts *options, size, tasks, key int) error {
	rt, err := setup(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.close()

	src := make([]byte, size)
	for i := range src {
		src[i] = byte(i)
	}

	start := time.Now()
	jobs := make([]*host.Job, 0, tasks)
	for range tasks {
		j, err := rt.submit(src, key)
		if err != nil {
			return fmt.Errorf("failed to submit task: %w", err)
		}
		jobs = append(jobs, j)
	}
	rt.sched.Drain()
	elapsed := time.Since(start)

	w := cmd.OutOrStdout()
	var yields uint64
	for _, j := range jobs {
		r, ok := j.Result()
		if !ok {
			return fmt.Errorf("task %d did not complete", j.ID())
		}
		yields += r.Yields
		fmt.Fprintf(w, "task %d: %d bytes, %d yields\n", j.ID(), len(r.Output), r.Yields)
	}
	total := float64(size) * float64(tasks)
	fmt.Fprintf(w, "%d tasks, %d yields, %s, %.1f MiB/s\n",
		tasks, yields, elapsed.Round(time.Microsecond), total/(1<<20)/max(elapsed.Seconds(), 1e-9))
	rt.log.Info("bench done",
		zap.Int("tasks", tasks),
		zap.Int("size", size),
		zap.Uint64("yields", yields),
		zap.Duration("elapsed", elapsed))
	return nil
}
