// Package persistence provides the storage abstraction for compiled process definitions.
package persistence

import (
	"context"

	"github.com/dukex/flowc/pkg/models"
)

// Persistence stores compiled process definitions keyed by process id.
//
// SaveProcess replaces a stored definition only when the version changed. Saving the same
// id and version twice fails with ErrProcessAlreadyExists.
type Persistence interface {
	Processes(ctx context.Context) ([]*models.ProcessDefinition, error)
	SaveProcess(ctx context.Context, process *models.ProcessDefinition) error
	ProcessByID(ctx context.Context, id string) (*models.ProcessDefinition, error)
	DeleteProcess(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}

// CheckReplace reports whether process may replace the stored definition.
func CheckReplace(stored, process *models.ProcessDefinition) error {
	if stored != nil && stored.Version == process.Version {
		return NewProcessError("SaveProcess", process.ID, ErrProcessAlreadyExists)
	}

	return nil
}
