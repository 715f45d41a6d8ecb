package main

import (
	"os"

	"github.com/fintsync-dev/fintsync/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
