// Package postgresql provides PostgreSQL persistence of compiled process definitions.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db          *sql.DB
	logger      *slog.Logger
	migrations  *sqlbase.MigrationManager
	processRepo *ProcessRepository
}

// NewPersistence connects to databaseURL and brings the schema up to date.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger = logger.With("module", "postgresql")
	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:          database,
		logger:      logger,
		migrations:  migrationManager,
		processRepo: NewProcessRepository(database, logger),
	}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database is reachable and its schema is current.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	version, err := p.migrations.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	if latest := p.migrations.LatestVersion(); version != latest {
		return fmt.Errorf("database schema at version %d, expected %d", version, latest)
	}

	return nil
}

// Processes returns all processes from the database.
func (p *Persistence) Processes(ctx context.Context) ([]*models.ProcessDefinition, error) {
	return p.processRepo.GetAll(ctx)
}

// ProcessByID returns a process by its ID.
func (p *Persistence) ProcessByID(ctx context.Context, id string) (*models.ProcessDefinition, error) {
	return p.processRepo.GetByID(ctx, id)
}

// SaveProcess saves a process to the database.
func (p *Persistence) SaveProcess(ctx context.Context, process *models.ProcessDefinition) error {
	return p.processRepo.Save(ctx, process)
}

// DeleteProcess removes a process from the database.
func (p *Persistence) DeleteProcess(ctx context.Context, id string) error {
	return p.processRepo.Delete(ctx, id)
}
