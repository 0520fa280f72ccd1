// Package config loads flowc settings from an optional YAML file and FLOWC_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// AppName is the base name of the configuration file (flowc.yaml).
	AppName = "flowc"

	// EnvPrefix is the prefix of environment overrides, e.g. FLOWC_DATABASE_URL.
	EnvPrefix = "FLOWC"

	DefaultPort        = 9091
	DefaultDatabaseURL = "file://./data"
	DefaultEventBus    = "gochannel"
)

// ErrMissingKafkaBrokers indicates the kafka event bus was selected without brokers.
var ErrMissingKafkaBrokers = errors.New("kafka event bus requires at least one broker")

// Config holds the settings shared by every flowc command.
type Config struct {
	LogLevel     string   `mapstructure:"log_level"     validate:"oneof=debug info warn error"`
	DatabaseURL  string   `mapstructure:"database_url"  validate:"required"`
	EventBus     string   `mapstructure:"event_bus"     validate:"oneof=gochannel kafka"`
	KafkaBrokers []string `mapstructure:"kafka_brokers" validate:"dive,required"`
	Port         int      `mapstructure:"port"          validate:"min=1,max=65535"`
	PluginsPath  string   `mapstructure:"plugins_path"`
	PackageName  string   `mapstructure:"package_name"`
	Visibility   string   `mapstructure:"visibility"    validate:"omitempty,oneof=Public Private"`

	Tracing struct {
		Enabled     bool   `mapstructure:"enabled"`
		ServiceName string `mapstructure:"service_name" validate:"required_if=Enabled true"`
	} `mapstructure:"tracing"`
}

// Load reads cfgFile, or flowc.yaml from the working directory or /etc/flowc when cfgFile is
// empty, then applies environment overrides. A missing default file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/" + AppName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the loaded settings.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.EventBus == "kafka" && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("invalid configuration: %w", ErrMissingKafkaBrokers)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("database_url", DefaultDatabaseURL)
	v.SetDefault("event_bus", DefaultEventBus)
	v.SetDefault("kafka_brokers", []string{})
	v.SetDefault("port", DefaultPort)
	v.SetDefault("plugins_path", "")
	v.SetDefault("package_name", "")
	v.SetDefault("visibility", "")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", AppName)
}
