package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/persistence"
)

// ProcessRepository handles process-related database operations.
type ProcessRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewProcessRepository creates a new process repository.
func NewProcessRepository(db *sql.DB, logger *slog.Logger) *ProcessRepository {
	return &ProcessRepository{db: db, logger: logger}
}

// GetAll returns all processes ordered by id.
func (r *ProcessRepository) GetAll(ctx context.Context) ([]*models.ProcessDefinition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, definition FROM processes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query processes: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	processes := make([]*models.ProcessDefinition, 0)

	for rows.Next() {
		process, err := r.scanProcess(rows)
		if err != nil {
			return nil, err
		}

		processes = append(processes, process)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating processes: %w", err)
	}

	return processes, nil
}

// GetByID returns the process or ErrProcessNotFound.
func (r *ProcessRepository) GetByID(ctx context.Context, id string) (*models.ProcessDefinition, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, definition FROM processes WHERE id = $1`, id)

	process, err := r.scanProcess(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewProcessError("ProcessByID", id, persistence.ErrProcessNotFound)
	}

	return process, err
}

// Save inserts the process or replaces a stored one with a different version.
func (r *ProcessRepository) Save(ctx context.Context, process *models.ProcessDefinition) (err error) {
	definition, err := json.Marshal(process)
	if err != nil {
		return fmt.Errorf("failed to marshal process %s: %w", process.ID, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var version string

	err = tx.QueryRowContext(ctx, `SELECT version FROM processes WHERE id = $1 FOR UPDATE`, process.ID).Scan(&version)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	case err != nil:
		return fmt.Errorf("failed to lock process %s: %w", process.ID, err)
	default:
		if err = persistence.CheckReplace(&models.ProcessDefinition{ID: process.ID, Version: version}, process); err != nil {
			return err
		}
	}

	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO processes (id, name, version, package_name, definition, node_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			version = EXCLUDED.version,
			package_name = EXCLUDED.package_name,
			definition = EXCLUDED.definition,
			node_count = EXCLUDED.node_count,
			updated_at = EXCLUDED.updated_at
	`,
		process.ID,
		process.Name,
		process.Version,
		process.PackageName,
		definition,
		process.NodeCount(),
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save process %s: %w", process.ID, err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit process %s: %w", process.ID, err)
	}

	return nil
}

// Delete removes the process or returns ErrProcessNotFound.
func (r *ProcessRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM processes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete process %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete process %s: %w", id, err)
	}

	if affected == 0 {
		return persistence.NewProcessError("DeleteProcess", id, persistence.ErrProcessNotFound)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *ProcessRepository) scanProcess(row scanner) (*models.ProcessDefinition, error) {
	var (
		id         string
		definition []byte
	)

	if err := row.Scan(&id, &definition); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to scan process: %w", err)
	}

	var process models.ProcessDefinition

	if err := json.Unmarshal(definition, &process); err != nil {
		return nil, fmt.Errorf("failed to unmarshal process %s: %w", id, err)
	}

	return &process, nil
}
