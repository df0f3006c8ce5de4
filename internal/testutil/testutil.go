package testutil

import (
	"database/sql"
	"io/fs"
	"sort"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/mahefa-ra/agentwatch/internal/repository/postgres"
	"github.com/mahefa-ra/agentwatch/migrations"
)

// OpenTestDB opens an in-memory sqlite database with the full schema
// applied. The connection is closed when the test finishes.
func OpenTestDB(t *testing.T) *postgres.DB {
	t.Helper()

	raw, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { raw.Close() })

	files, err := fs.Glob(migrations.GetFS(), "*.sql")
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := fs.ReadFile(migrations.GetFS(), name)
		if err != nil {
			t.Fatalf("read migration %s: %v", name, err)
		}
		if _, err := raw.Exec(string(content)); err != nil {
			t.Fatalf("apply migration %s: %v", name, err)
		}
	}

	return postgres.NewSQLite(raw)
}
