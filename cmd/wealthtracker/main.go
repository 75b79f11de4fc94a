package main

import (
	"os"

	"github.com/wealthtracker-dev/wealthtracker/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
