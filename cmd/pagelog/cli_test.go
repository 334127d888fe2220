package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/hpungsan/pagelog/internal/config"
	"github.com/hpungsan/pagelog/internal/db"
	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/ops"
)

// setupTestApp creates a temporary store and a CLI app over it.
func setupTestApp(t *testing.T) (*sql.DB, *config.Config, func(args ...string) (string, error)) {
	t.Helper()

	baseDir := t.TempDir()
	database, err := db.Init(baseDir)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg, err := config.Load(baseDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	app := newCLIApp(database, cfg)

	// run executes the app with stdout captured
	run := func(args ...string) (string, error) {
		oldStdout := os.Stdout
		r, w, _ := os.Pipe()
		os.Stdout = w

		err := app.Run(append([]string{"pagelog"}, args...))

		w.Close()
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		os.Stdout = oldStdout

		return buf.String(), err
	}

	return database, cfg, run
}

func TestCLICreate(t *testing.T) {
	_, _, run := setupTestApp(t)

	out, err := run("create",
		"--type=bug_report",
		"--title=Footer overlaps content",
		"--priority=low",
		"--url=http://localhost:5173/about",
	)
	if err != nil {
		t.Fatalf("create command failed: %v", err)
	}

	var created entry.Entry
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if created.EntryID != "BUG-001" {
		t.Errorf("expected entryId=BUG-001, got %s", created.EntryID)
	}
	// Path defaults to the URL's path component
	if created.PagePath != "/about" {
		t.Errorf("expected pagePath=/about, got %s", created.PagePath)
	}
}

func TestCLIGetAndList(t *testing.T) {
	database, _, run := setupTestApp(t)

	seeded, err := ops.Create(database, ops.CreateInput{
		Type:     entry.TypeNote,
		Title:    "seeded note",
		PageURL:  "http://localhost:5173/docs",
		PagePath: "/docs",
	})
	if err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}

	out, err := run("get", seeded.EntryID)
	if err != nil {
		t.Fatalf("get command failed: %v", err)
	}
	var got entry.Entry
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if got.Title != "seeded note" {
		t.Errorf("expected title=seeded note, got %s", got.Title)
	}

	out, err = run("list", "--path=/docs")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}
	var listed ops.ListOutput
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(listed.Entries) != 1 || listed.OpenCount != 1 {
		t.Errorf("expected 1 entry and openCount=1, got %d/%d", len(listed.Entries), listed.OpenCount)
	}
}

func TestCLIUpdate(t *testing.T) {
	database, _, run := setupTestApp(t)

	seeded, err := ops.Create(database, ops.CreateInput{
		Type:     entry.TypeChangeRequest,
		Title:    "initial",
		PageURL:  "http://localhost:5173/",
		PagePath: "/",
	})
	if err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}

	out, err := run("update", "--title=revised", "--complete", seeded.EntryID)
	if err != nil {
		t.Fatalf("update command failed: %v", err)
	}
	var updated entry.Entry
	if err := json.Unmarshal([]byte(out), &updated); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if updated.Title != "revised" || !updated.IsComplete {
		t.Errorf("unexpected entry after update: %+v", updated)
	}

	out, err = run("update", "--reopen", seeded.EntryID)
	if err != nil {
		t.Fatalf("update command failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &updated); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if updated.IsComplete {
		t.Error("expected entry to be reopened")
	}
}

func TestCLIAttachLifecycle(t *testing.T) {
	database, _, run := setupTestApp(t)

	seeded, err := ops.Create(database, ops.CreateInput{
		Type:     entry.TypeBugReport,
		Title:    "with attachment",
		PageURL:  "http://localhost:5173/form",
		PagePath: "/form",
	})
	if err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}

	srcPath := filepath.Join(t.TempDir(), "shot.png")
	payload := []byte("png bytes")
	if err := os.WriteFile(srcPath, payload, 0600); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}

	out, err := run("attach", "--mime-type=image/png", seeded.EntryID, srcPath)
	if err != nil {
		t.Fatalf("attach command failed: %v", err)
	}
	var attached entry.Attachment
	if err := json.Unmarshal([]byte(out), &attached); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if attached.OriginalName != "shot.png" || attached.MimeType != "image/png" {
		t.Errorf("unexpected attachment: %+v", attached)
	}

	// Fetch the bytes back to a file
	outPath := filepath.Join(t.TempDir(), "downloaded.png")
	_, err = run("attachment", "--out="+outPath, jsonID(attached.ID))
	if err != nil {
		t.Fatalf("attachment command failed: %v", err)
	}
	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("downloaded bytes differ from source")
	}

	// Detach removes the attachment but not the entry
	out, err = run("detach", jsonID(attached.ID))
	if err != nil {
		t.Fatalf("detach command failed: %v", err)
	}
	var detached ops.DeleteAttachmentOutput
	if err := json.Unmarshal([]byte(out), &detached); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if !detached.Deleted {
		t.Error("expected deleted=true")
	}
	if _, err := ops.Get(database, seeded.EntryID); err != nil {
		t.Errorf("entry should survive detach: %v", err)
	}
}

func TestCLICountAndExport(t *testing.T) {
	database, cfg, run := setupTestApp(t)

	if _, err := ops.Create(database, ops.CreateInput{
		Type:     entry.TypeNote,
		Title:    "exported note",
		PageURL:  "http://localhost:5173/",
		PagePath: "/",
	}); err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}

	out, err := run("count")
	if err != nil {
		t.Fatalf("count command failed: %v", err)
	}
	var counts ops.CountOutput
	if err := json.Unmarshal([]byte(out), &counts); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if counts.OpenCount != 1 || counts.TotalCount != 1 {
		t.Errorf("expected counts 1/1, got %d/%d", counts.OpenCount, counts.TotalCount)
	}

	out, err = run("export", "--format=markdown")
	if err != nil {
		t.Fatalf("export command failed: %v", err)
	}
	var exported ops.ExportOutput
	if err := json.Unmarshal([]byte(out), &exported); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if exported.Count != 1 {
		t.Errorf("expected count=1, got %d", exported.Count)
	}
	if filepath.Dir(exported.Path) != cfg.ExportsDir {
		t.Errorf("expected export under %s, got %s", cfg.ExportsDir, exported.Path)
	}
	if _, err := os.Stat(exported.Path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestCLIDelete(t *testing.T) {
	database, _, run := setupTestApp(t)

	seeded, err := ops.Create(database, ops.CreateInput{
		Type:     entry.TypeBugReport,
		Title:    "doomed",
		PageURL:  "http://localhost:5173/",
		PagePath: "/",
	})
	if err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}

	out, err := run("delete", seeded.EntryID)
	if err != nil {
		t.Fatalf("delete command failed: %v", err)
	}
	var deleted ops.DeleteOutput
	if err := json.Unmarshal([]byte(out), &deleted); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if !deleted.Deleted {
		t.Error("expected deleted=true")
	}
}

func TestCLIGetMissingEntry(t *testing.T) {
	_, _, run := setupTestApp(t)

	_, err := run("get", "CR-404")
	if err == nil {
		t.Fatal("expected an error for a missing entry")
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"shot.png", "shot.png"},
		{"/tmp/dir/shot.png", "shot.png"},
		{`C:\temp\shot.png`, "shot.png"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := baseName(tt.input); got != tt.expected {
			t.Errorf("baseName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// jsonID renders an attachment row ID as a CLI argument.
func jsonID(id int64) string {
	return strconv.FormatInt(id, 10)
}
