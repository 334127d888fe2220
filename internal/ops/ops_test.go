package ops

import (
	"database/sql"
	"testing"

	"github.com/hpungsan/pagelog/internal/config"
	"github.com/hpungsan/pagelog/internal/db"
	"github.com/hpungsan/pagelog/internal/entry"
)

// setupTest initializes a fresh store in a temp directory and returns the
// database handle plus a config resolved against the same base directory.
func setupTest(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	baseDir := t.TempDir()
	database, err := db.Init(baseDir)
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg, err := config.Load(baseDir)
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	return database, cfg
}

// createTestEntry inserts an entry through the Create operation.
func createTestEntry(t *testing.T, database *sql.DB, typ entry.Type, pagePath string) *entry.Entry {
	t.Helper()

	e, err := Create(database, CreateInput{
		Type:     typ,
		Title:    "test " + string(typ),
		PageURL:  "http://localhost:5173" + pagePath,
		PagePath: pagePath,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return e
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func typePtr(t entry.Type) *entry.Type { return &t }
