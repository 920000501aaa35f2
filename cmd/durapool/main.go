// Package main is the entry point for the durapool CLI.
package main

import (
	"os"

	"github.com/quartzlabs/durapool/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
