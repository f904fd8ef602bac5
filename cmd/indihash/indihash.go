package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/jlrickert/indihash/pkg/cli"
)

func main() {
	ctx := context.Background()

	rt, err := toolkit.NewRuntime()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	// errors are already rendered to stderr by cli.Run
	exitCode, _ := cli.Run(ctx, rt, os.Args[1:])
	os.Exit(exitCode)
}
