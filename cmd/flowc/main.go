// Package main provides the flowc command: it compiles serverless workflow documents into
// executable process definitions and serves them over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "flowc:", err)
		stop()
		os.Exit(1)
	}
}

// NewCommand builds the flowc command tree.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:                  "flowc",
		Usage:                 "Compile serverless workflows into process definitions",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewCompileCommand(),
			NewValidateCommand(),
			NewServeCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a flowc.yaml configuration file",
				Sources: cli.EnvVars("FLOWC_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "plugins-path",
				Usage:   "Path to the directory containing state compiler plugins",
				Sources: cli.EnvVars("PLUGINS_PATH"),
			},
			&cli.StringFlag{
				Name:  "package-name",
				Usage: "Package of compiled processes when the workflow does not set one",
			},
			&cli.StringFlag{
				Name:  "visibility",
				Usage: "Visibility of compiled processes (Public, Private)",
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export compilation traces over OTLP/HTTP",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
		},
	}
}
