// Package main is the entry point for the kuntur-store CLI.
package main

import (
	"os"

	"kuntur-store/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
