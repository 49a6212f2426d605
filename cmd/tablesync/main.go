// Package main provides the CLI entrypoint for the tablesync engine.
package main

import (
	"os"

	"github.com/leapstack-labs/tablesync/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
