package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	appLog "fullcal/internal/log"
)

const version = "0.1.0"

func main() {
	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		appLog.Error("command failed", err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "fullcal",
		Usage:   "month calendar server and renderer",
		Version: version,
		Writer:  os.Stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "./config.yaml",
				Usage:   "path to the YAML config file (created with defaults if missing)",
				Sources: cli.EnvVars("FULLCAL_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info or error (overrides the config file)",
				Sources: cli.EnvVars("FULLCAL_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			showCommand(),
			gridCommand(),
			dayCommand(),
			exportCommand(),
			captureCommand(),
		},
		DefaultCommand: "serve",
	}
}
