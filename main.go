// paiSchema – AI-assisted data modeling from the terminal.
//
// Entry point: initializes Cobra root command and launches
// the Bubble Tea TUI by default (no subcommand required).
package main

import (
	"os"

	"github.com/DachengChen/paiSchema/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
