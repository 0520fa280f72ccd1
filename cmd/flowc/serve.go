package main

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	cli "github.com/urfave/cli/v3"

	"github.com/dukex/flowc/pkg/log"
	"github.com/dukex/flowc/pkg/web"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the process API",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Sources: cli.EnvVars("PORT"),
			},
		}, storageFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg, err := loadConfig(command)
			if err != nil {
				return err
			}

			log.Setup(cfg.LogLevel)
			logger := log.WithModule("api")

			logger.InfoContext(ctx, "Initializing flowc API")

			rt, err := newRuntime(ctx, cfg, logger, true)
			if err != nil {
				return err
			}

			defer func() {
				if err := rt.Close(context.WithoutCancel(ctx)); err != nil {
					logger.ErrorContext(ctx, "Failed to close runtime", "error", err)
				}
			}()

			handlers := web.NewAPIHandlers(rt.service, validator.New(validator.WithRequiredStructEnabled()), rt.registry)
			app := web.NewApp(handlers)

			errCh := make(chan error, 1)

			go func() {
				errCh <- app.Listen(":" + strconv.Itoa(cfg.Port))
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.InfoContext(ctx, "Shutting down flowc API")
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()

			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				return err
			}

			if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			return nil
		},
	}
}
