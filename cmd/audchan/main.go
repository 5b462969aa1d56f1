// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ik5/audchan/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.RootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "audchan:", err)
		stop()
		os.Exit(1)
	}
}
