// Package main is the entry point for the traitforge CLI.
package main

import (
	"os"

	"github.com/f3rmion/traitforge/cmd/traitforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
