package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/flowc/pkg/log"
)

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Check that a workflow document compiles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Workflow document (.json, .yaml, .yml)",
				Required: true,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg, err := loadConfig(command)
			if err != nil {
				return err
			}

			log.Setup(cfg.LogLevel)
			logger := log.WithModule("validate")

			document, format, err := readDocument(command.String("file"))
			if err != nil {
				return err
			}

			rt, err := newRuntime(ctx, cfg, logger, false)
			if err != nil {
				return err
			}

			defer func() {
				if err := rt.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close runtime", "error", err)
				}
			}()

			process, err := rt.service.Validate(ctx, document, format)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(command.Root().Writer, "%s %s: valid (%d nodes)\n", process.ID, process.Version, process.NodeCount())

			return err
		},
	}
}
