package main

import (
	"fmt"
	"os"

	"sanguo/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "worldctl: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
