package db

import (
	"context"
	"io/fs"
	"testing"

	"github.com/diewo77/go-backoffice/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectAndMigrateSQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: "file:" + t.Name() + "?mode=memory&cache=shared"}
	conn, err := Connect(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	// AutoMigrate runs for sqlite even when SQL migrations are requested.
	require.NoError(t, Migrate(conn, cfg, true))
	require.NoError(t, Migrate(conn, cfg, false), "migrating twice must be idempotent")
	for _, table := range requiredTables {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestEmbeddedMigrationsPaired(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "migrations/*.down.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
