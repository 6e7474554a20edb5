// Command rxtrace manages and serves a pharmaceutical supply-chain ledger.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/rxtrace/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rxtrace:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
