package main

import (
	"os"

	"github.com/rustyeddy/cyclebot/cmd/cyclebot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
