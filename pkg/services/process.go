package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/flowc/pkg/compiler"
	"github.com/dukex/flowc/pkg/eventbus"
	"github.com/dukex/flowc/pkg/events"
	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/persistence"
	"github.com/dukex/flowc/pkg/spec"
)

// Process compiles workflow documents and manages the stored process definitions.
type Process struct {
	logger      *slog.Logger
	compiler    *compiler.Compiler
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
}

// NewProcess creates a process service. A nil publisher disables lifecycle events.
func NewProcess(logger *slog.Logger, c *compiler.Compiler, p persistence.Persistence, publisher eventbus.EventPublisher) *Process {
	return &Process{
		logger:      logger.With("module", "process_service"),
		compiler:    c,
		persistence: p,
		publisher:   publisher,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Process) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// Validate compiles document without storing the result.
func (s *Process) Validate(ctx context.Context, document []byte, format spec.Format) (*models.ProcessDefinition, error) {
	return s.build(ctx, "Validate", document, format)
}

// Compile compiles document, stores the process and announces it.
func (s *Process) Compile(ctx context.Context, document []byte, format spec.Format) (*models.ProcessDefinition, error) {
	process, err := s.build(ctx, "Compile", document, format)
	if err != nil {
		return nil, err
	}

	if err := s.persistence.SaveProcess(ctx, process); err != nil {
		if persistence.IsProcessAlreadyExists(err) {
			return nil, &ServiceError{
				Op:      "Compile",
				Code:    "PROCESS_EXISTS",
				Message: fmt.Sprintf("process %s version %q is already stored", process.ID, process.Version),
				Err:     err,
			}
		}

		return nil, fmt.Errorf("failed to save process: %w", err)
	}

	s.publish(ctx, events.NewProcessCompiled(process))

	return process, nil
}

// Get returns a stored process.
func (s *Process) Get(ctx context.Context, id string) (*models.ProcessDefinition, error) {
	if id == "" {
		return nil, NewValidationError("Get", "INVALID_ID", "process id is required", ErrInvalidRequest)
	}

	process, err := s.persistence.ProcessByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get process: %w", err)
	}

	return process, nil
}

// List returns every stored process.
func (s *Process) List(ctx context.Context) ([]*models.ProcessDefinition, error) {
	processes, err := s.persistence.Processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	return processes, nil
}

// Delete removes a stored process and announces it.
func (s *Process) Delete(ctx context.Context, id string) error {
	if id == "" {
		return NewValidationError("Delete", "INVALID_ID", "process id is required", ErrInvalidRequest)
	}

	if err := s.persistence.DeleteProcess(ctx, id); err != nil {
		return fmt.Errorf("failed to delete process: %w", err)
	}

	s.publish(ctx, events.NewProcessDeleted(id))

	return nil
}

func (s *Process) build(ctx context.Context, op string, document []byte, format spec.Format) (*models.ProcessDefinition, error) {
	if len(document) == 0 {
		return nil, NewValidationError(op, "EMPTY_DOCUMENT", "", ErrEmptyDocument)
	}

	workflow, err := spec.Load(document, format)
	if err != nil {
		return nil, NewValidationError(op, "INVALID_DOCUMENT", err.Error(), err)
	}

	process, err := s.compiler.Compile(ctx, workflow)
	if err != nil {
		return nil, NewValidationError(op, "INVALID_WORKFLOW", err.Error(), err)
	}

	return process, nil
}

// publish is best effort: the process is already stored when the event goes out.
func (s *Process) publish(ctx context.Context, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event", "event_type", event.GetType(), "process_id", event.GetProcessID(), "error", err)
	}
}
