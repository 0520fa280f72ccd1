package main

import (
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/flowc/pkg/config"
)

// loadConfig reads the configuration file and environment, then applies the flags the
// user set explicitly.
func loadConfig(command *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(command.String("config"))
	if err != nil {
		return nil, err
	}

	if command.IsSet("log-level") {
		cfg.LogLevel = command.String("log-level")
	}

	if command.IsSet("plugins-path") {
		cfg.PluginsPath = command.String("plugins-path")
	}

	if command.IsSet("package-name") {
		cfg.PackageName = command.String("package-name")
	}

	if command.IsSet("visibility") {
		cfg.Visibility = command.String("visibility")
	}

	if command.IsSet("tracing") {
		cfg.Tracing.Enabled = command.Bool("tracing")
	}

	if command.IsSet("database-url") {
		cfg.DatabaseURL = command.String("database-url")
	}

	if command.IsSet("event-bus") {
		cfg.EventBus = command.String("event-bus")
	}

	if command.IsSet("kafka-brokers") {
		cfg.KafkaBrokers = splitBrokers(command.StringSlice("kafka-brokers"))
	}

	if command.IsSet("port") {
		cfg.Port = int(command.Int("port"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitBrokers(values []string) []string {
	brokers := make([]string, 0, len(values))

	for _, value := range values {
		for broker := range strings.SplitSeq(value, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				brokers = append(brokers, broker)
			}
		}
	}

	return brokers
}
