package main

import (
	"os"

	"github.com/investorcenter/icscore/cmd/icscore/commands"
)

// main is the entry point for the icscore CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
