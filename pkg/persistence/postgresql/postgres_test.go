package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/dukex/flowc/pkg/persistence"
	"github.com/dukex/flowc/pkg/persistence/postgresql"
	"github.com/dukex/flowc/pkg/testutil"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"processes", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	require.NoError(t, db.Close())
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("flowc_test"),
			postgres.WithUsername("flowc"),
			postgres.WithPassword("flowc"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)
		require.NoError(t, p.Close(ctx))
		cancel()
	})

	return p, ctx, databaseURL
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, db.Close())
	}()

	var exists bool

	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = 'processes')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "processes table should exist")

	var version int

	err = db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestNewPersistence_HealthCheck(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	assert.NoError(t, p.HealthCheck(ctx))
}

func TestNewPersistence_SaveAndRetrieveProcess(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	process := testutil.CreateTestProcess()
	require.NoError(t, p.SaveProcess(ctx, process))

	retrieved, err := p.ProcessByID(ctx, process.ID)
	require.NoError(t, err)

	assert.Equal(t, process.ID, retrieved.ID)
	assert.Equal(t, process.Name, retrieved.Name)
	assert.Equal(t, process.Version, retrieved.Version)
	assert.Equal(t, process.NodeCount(), retrieved.NodeCount())
	assert.Len(t, retrieved.Nodes.Connections(), 2)

	_, err = p.ProcessByID(ctx, "missing")
	assert.True(t, persistence.IsProcessNotFound(err))
}

func TestNewPersistence_SaveProcessVersions(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	require.NoError(t, p.SaveProcess(ctx, testutil.CreateTestProcess()))

	err := p.SaveProcess(ctx, testutil.CreateTestProcess())
	assert.True(t, persistence.IsProcessAlreadyExists(err))

	require.NoError(t, p.SaveProcess(ctx, testutil.CreateTestProcess(testutil.WithVersion("2.0"))))

	processes, err := p.Processes(ctx)
	require.NoError(t, err)
	require.Len(t, processes, 1)
	assert.Equal(t, "2.0", processes[0].Version)
}

func TestNewPersistence_DeleteProcess(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	require.NoError(t, p.SaveProcess(ctx, testutil.CreateTestProcess()))
	require.NoError(t, p.DeleteProcess(ctx, "greeting"))

	err := p.DeleteProcess(ctx, "greeting")
	assert.True(t, persistence.IsProcessNotFound(err))
}
