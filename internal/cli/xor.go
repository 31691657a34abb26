// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"code.hybscloud.com/iox"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func isWouldBlock(err error) bool {
	return err != nil && iox.IsWouldBlock(err)
}

func newXorCommand(opts *options) *cobra.Command {
	var key int
	cmd := &cobra.Command{
		Use:   "xor <in> <out>",
		Short: "XOR every byte of a file with a key",
		Long: `Reads <in>, XORs every byte with --key in one cooperative task, and
writes the result to <out>. Applying the same key twice restores the input.

Examples:
  coopxor xor plain.bin masked.bin --key 90
  coopxor xor masked.bin plain.bin --key 90 --log-level debug`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runXor(cmd, opts, args[0], args[1], key)
		},
	}
	cmd.Flags().IntVar(&key, "key", 0, "key byte, 0-255")
	return cmd
}

func runXor(cmd *cobra.Command, opts *options, in, out string, key int) error {
	src, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	rt, err := setup(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.close()

	j, err := rt.submit(src, key)
	if err != nil {
		return fmt.Errorf("failed to submit task: %w", err)
	}
	rt.sched.Drain()
	r, ok := j.Result()
	if !ok {
		return fmt.Errorf("task %d did not complete", j.ID())
	}
	if err := os.WriteFile(out, r.Output, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	rt.log.Info("xor done",
		zap.String("in", in),
		zap.String("out", out),
		zap.Int("bytes", len(r.Output)),
		zap.Uint64("yields", r.Yields))
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes, %d yields\n", out, len(r.Output), r.Yields)
	return nil
}
