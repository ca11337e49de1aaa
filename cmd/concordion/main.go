// Command concordion discovers and runs the sample specifications with
// every engine.
package main

import (
	"fmt"
	"os"

	"github.com/granito-source/concordion/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.SamplesHost).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
