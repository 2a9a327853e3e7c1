// Package dbtest abre bancos SQLite temporários já migrados para testes.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gestaozabele/sst/internal/db"
)

// New devolve um banco SQLite em t.TempDir() com todas as migrações aplicadas.
func New(t *testing.T) *db.DB {
	t.Helper()

	ctx := context.Background()
	url := "sqlite:///" + filepath.ToSlash(filepath.Join(t.TempDir(), "test.db"))

	conn, err := db.Open(ctx, url)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.Migrate(ctx, conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return conn
}
