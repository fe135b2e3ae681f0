// Package main is the entry point for the downwind CLI.
package main

import (
	"os"

	"github.com/feli0x/Downwind/cmd/downwind/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
