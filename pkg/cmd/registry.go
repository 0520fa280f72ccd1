// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/dukex/flowc/pkg/registry"
)

// NewRegistry registers the built-in state compilers, then the plugins found in pluginsPath,
// which may replace them.
func NewRegistry(logger *slog.Logger, pluginsPath string) (*registry.Registry, error) {
	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultStates()

	if pluginsPath == "" {
		return reg, nil
	}

	if _, err := reg.LoadPlugins(pluginsPath); err != nil {
		return nil, fmt.Errorf("failed to load state plugins: %w", err)
	}

	return reg, nil
}
