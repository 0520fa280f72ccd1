package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/flowc/pkg/log"
	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/spec"
)

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "Persistence URL (file://, postgres://, redis://)",
			Sources: cli.EnvVars("DATABASE_URL"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus type (gochannel, kafka)",
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.StringSliceFlag{
			Name:    "kafka-brokers",
			Usage:   "Kafka brokers, comma separated",
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
	}
}

func NewCompileCommand() *cli.Command {
	return &cli.Command{
		Name:    "compile",
		Aliases: []string{"c"},
		Usage:   "Compile a workflow document and print the process definition",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Workflow document (.json, .yaml, .yml)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the process definition to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Store the compiled process and publish a process.compiled event",
			},
		}, storageFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg, err := loadConfig(command)
			if err != nil {
				return err
			}

			log.Setup(cfg.LogLevel)
			logger := log.WithModule("compile")

			document, format, err := readDocument(command.String("file"))
			if err != nil {
				return err
			}

			save := command.Bool("save")

			rt, err := newRuntime(ctx, cfg, logger, save)
			if err != nil {
				return err
			}

			defer func() {
				if err := rt.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close runtime", "error", err)
				}
			}()

			var process *models.ProcessDefinition
			if save {
				process, err = rt.service.Compile(ctx, document, format)
			} else {
				process, err = rt.service.Validate(ctx, document, format)
			}

			if err != nil {
				return err
			}

			logger.InfoContext(ctx, "Compiled workflow", "process_id", process.ID, "nodes", process.NodeCount(), "saved", save)

			return writeProcess(command, command.String("output"), process)
		},
	}
}

func readDocument(path string) ([]byte, spec.Format, error) {
	document, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read workflow %s: %w", path, err)
	}

	return document, spec.FormatFromPath(path), nil
}

func writeProcess(command *cli.Command, output string, process *models.ProcessDefinition) (err error) {
	if output == "" {
		return encodeProcess(command.Root().Writer, process)
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", output, cerr)
		}
	}()

	if err := encodeProcess(file, process); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	return nil
}

func encodeProcess(w io.Writer, process *models.ProcessDefinition) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(process)
}
