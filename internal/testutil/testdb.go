// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/diewo77/go-backoffice/internal/config"
	"github.com/diewo77/go-backoffice/internal/db"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// OpenDB returns a migrated in-memory sqlite database private to t.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: "file:" + name + "?mode=memory&cache=shared"}
	conn, err := db.Connect(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
