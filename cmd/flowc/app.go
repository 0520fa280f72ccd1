package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/flowc/pkg/cmd"
	"github.com/dukex/flowc/pkg/compiler"
	"github.com/dukex/flowc/pkg/config"
	"github.com/dukex/flowc/pkg/eventbus"
	"github.com/dukex/flowc/pkg/factory"
	"github.com/dukex/flowc/pkg/otelhelper"
	"github.com/dukex/flowc/pkg/persistence"
	"github.com/dukex/flowc/pkg/registry"
	"github.com/dukex/flowc/pkg/services"
)

// runtime holds the components a command runs with. Storage and the event bus are only
// opened by commands that store processes.
type runtime struct {
	logger      *slog.Logger
	registry    *registry.Registry
	compiler    *compiler.Compiler
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	service     *services.Process

	closers []func(context.Context) error
}

func newRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger, withStorage bool) (*runtime, error) {
	rt := &runtime{logger: logger}

	tracer := otelhelper.NoopTracer()

	if cfg.Tracing.Enabled {
		var (
			shutdown func(context.Context) error
			err      error
		)

		tracer, shutdown, err = otelhelper.NewTracer(ctx, cfg.Tracing.ServiceName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}

		rt.closers = append(rt.closers, shutdown)
	}

	reg, err := cmd.NewRegistry(logger, cfg.PluginsPath)
	if err != nil {
		return nil, rt.fail(ctx, err)
	}

	rt.registry = reg
	rt.compiler = newCompiler(logger, cfg, reg, tracer)

	var publisher eventbus.EventPublisher

	if withStorage {
		rt.persistence, err = cmd.NewPersistence(ctx, logger, cfg.DatabaseURL)
		if err != nil {
			return nil, rt.fail(ctx, err)
		}

		rt.closers = append(rt.closers, rt.persistence.Close)

		rt.eventBus, err = cmd.NewEventBus(cfg.EventBus, cfg.KafkaBrokers, logger)
		if err != nil {
			return nil, rt.fail(ctx, err)
		}

		rt.closers = append(rt.closers, func(context.Context) error { return rt.eventBus.Close() })
		publisher = rt.eventBus
	}

	rt.service = services.NewProcess(logger, rt.compiler, rt.persistence, publisher)

	return rt, nil
}

func newCompiler(logger *slog.Logger, cfg *config.Config, reg *registry.Registry, tracer trace.Tracer) *compiler.Compiler {
	f := factory.NewFactory(logger, factory.Config{
		PackageName: cfg.PackageName,
		Visibility:  cfg.Visibility,
	})

	return compiler.NewCompiler(logger, f, reg, tracer)
}

// Close releases everything newRuntime opened, most recent first.
func (rt *runtime) Close(ctx context.Context) error {
	var errs []error

	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	rt.closers = nil

	return errors.Join(errs...)
}

func (rt *runtime) fail(ctx context.Context, err error) error {
	if closeErr := rt.Close(ctx); closeErr != nil {
		rt.logger.ErrorContext(ctx, "Failed to release resources", "error", closeErr)
	}

	return err
}
