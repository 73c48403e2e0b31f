// Package main provides the LeapQuery CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapquery/internal/cli"

	// Register every bundled adapter and its dialect.
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/all"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
