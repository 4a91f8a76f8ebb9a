// Package main provides the CLI for leapprofile data profiling reports.
package main

import (
	"os"

	"github.com/leapstack-labs/leapprofile/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
