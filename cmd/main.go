package main

import (
	"context"
	"os"

	"github.com/desertthunder/bioflow/internal/session"
	"github.com/desertthunder/bioflow/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	sessionPath, err := session.DefaultPath()
	if err != nil {
		logger.Fatalf("failed to locate session file: %v", err)
	}

	sess, err := session.Open(sessionPath)
	if err != nil {
		logger.Fatalf("failed to open session: %v", err)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Session: sess,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "bioflow",
		Usage:    "Upload CSVs for differential analysis and manage the resulting jobs",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
