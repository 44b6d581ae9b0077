package main

import (
	"os"

	"github.com/spacesedan/reviewpulse/config"
	"github.com/spacesedan/reviewpulse/internal/cli"
	"github.com/spacesedan/reviewpulse/internal/logging"
)

func main() {
	config.LoadEnv(config.AppEnv())
	// stdout carries command output only
	logging.InitLogger(os.Stderr, config.Load().LogLevel)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
