// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command coopxor XORs files and runs interleaved task benchmarks on a
// cooperative scheduler.
package main

import (
	"fmt"
	"os"

	"code.hybscloud.com/coop/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
