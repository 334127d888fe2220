package db

import (
	"database/sql"
	"testing"
	"time"

	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
)

// newTestEntry builds a minimal entry for direct-insert tests.
func newTestEntry(entryID string, typ entry.Type, pagePath string) *entry.Entry {
	now := entry.Now()
	return &entry.Entry{
		EntryID:   entryID,
		Type:      typ,
		Title:     "test entry " + entryID,
		PageURL:   "http://localhost:3000" + pagePath,
		PagePath:  pagePath,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func initTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestInsertEntry_And_GetEntry(t *testing.T) {
	database := initTestDB(t)

	high := entry.PriorityHigh
	ua := "Mozilla/5.0 test"
	e := newTestEntry("CR-001", entry.TypeChangeRequest, "/checkout")
	e.Description = "move the button"
	e.Priority = &high
	e.UserAgent = &ua

	if err := InsertEntry(database, e); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}
	if e.RowID == 0 {
		t.Error("RowID not assigned")
	}

	got, err := GetEntry(database, "CR-001")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}

	if got.EntryID != "CR-001" {
		t.Errorf("EntryID = %q, want CR-001", got.EntryID)
	}
	if got.Type != entry.TypeChangeRequest {
		t.Errorf("Type = %q, want change_request", got.Type)
	}
	if got.Description != "move the button" {
		t.Errorf("Description = %q", got.Description)
	}
	if got.Priority == nil || *got.Priority != entry.PriorityHigh {
		t.Errorf("Priority = %v, want high", got.Priority)
	}
	if got.UserAgent == nil || *got.UserAgent != ua {
		t.Errorf("UserAgent = %v, want %q", got.UserAgent, ua)
	}
	if got.IsComplete {
		t.Error("IsComplete = true, want false")
	}
	if !got.CreatedAt.Equal(e.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, e.CreatedAt)
	}
	if len(got.Attachments) != 0 {
		t.Errorf("Attachments = %v, want empty", got.Attachments)
	}
}

func TestGetEntry_NotFound(t *testing.T) {
	database := initTestDB(t)

	_, err := GetEntry(database, "BUG-999")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestInsertEntry_DuplicateID(t *testing.T) {
	database := initTestDB(t)

	if err := InsertEntry(database, newTestEntry("NOTE-001", entry.TypeNote, "/")); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	err := InsertEntry(database, newTestEntry("NOTE-001", entry.TypeNote, "/"))
	if !errors.Is(err, errors.ErrConstraintViolation) {
		t.Errorf("error = %v, want CONSTRAINT_VIOLATION", err)
	}
}

func TestInsertEntry_BadPriorityRejectedByCheck(t *testing.T) {
	database := initTestDB(t)

	bogus := entry.Priority("urgent")
	e := newTestEntry("BUG-001", entry.TypeBugReport, "/")
	e.Priority = &bogus

	err := InsertEntry(database, e)
	if !errors.Is(err, errors.ErrConstraintViolation) {
		t.Errorf("error = %v, want CONSTRAINT_VIOLATION", err)
	}
}

func TestListEntries_FiltersAndOrder(t *testing.T) {
	database := initTestDB(t)

	base := entry.Now().Add(-time.Minute)
	mk := func(id string, typ entry.Type, path string, complete bool, offset time.Duration) {
		e := newTestEntry(id, typ, path)
		e.CreatedAt = base.Add(offset)
		e.UpdatedAt = e.CreatedAt
		e.IsComplete = complete
		if err := InsertEntry(database, e); err != nil {
			t.Fatalf("InsertEntry(%s) failed: %v", id, err)
		}
	}

	mk("CR-001", entry.TypeChangeRequest, "/a", false, 0)
	mk("BUG-001", entry.TypeBugReport, "/a", true, time.Second)
	mk("NOTE-001", entry.TypeNote, "/b", false, 2*time.Second)
	mk("CR-002", entry.TypeChangeRequest, "/a", false, 3*time.Second)

	pathA := "/a"
	got, err := ListEntries(database, ListFilter{PagePath: &pathA, IncludeComplete: false})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	// Newest first
	if got[0].EntryID != "CR-002" || got[1].EntryID != "CR-001" {
		t.Errorf("order = [%s, %s], want [CR-002, CR-001]", got[0].EntryID, got[1].EntryID)
	}

	// Complete entries included on request
	got, err = ListEntries(database, ListFilter{PagePath: &pathA, IncludeComplete: true})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d entries, want 3", len(got))
	}

	// Type filter
	cr := entry.TypeChangeRequest
	got, err = ListEntries(database, ListFilter{Type: &cr, IncludeComplete: true})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d change requests, want 2", len(got))
	}
}

func TestCountEntries(t *testing.T) {
	database := initTestDB(t)

	pathA := "/a"

	open, total, err := CountEntries(database, &pathA)
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if open != 0 || total != 0 {
		t.Errorf("empty store counts = {%d, %d}, want {0, 0}", open, total)
	}

	e1 := newTestEntry("CR-001", entry.TypeChangeRequest, "/a")
	e2 := newTestEntry("CR-002", entry.TypeChangeRequest, "/a")
	e2.IsComplete = true
	e3 := newTestEntry("NOTE-001", entry.TypeNote, "/b")
	for _, e := range []*entry.Entry{e1, e2, e3} {
		if err := InsertEntry(database, e); err != nil {
			t.Fatalf("InsertEntry failed: %v", err)
		}
	}

	open, total, err = CountEntries(database, &pathA)
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if open != 1 || total != 2 {
		t.Errorf("counts for /a = {%d, %d}, want {1, 2}", open, total)
	}

	// Global counts
	open, total, err = CountEntries(database, nil)
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if open != 2 || total != 3 {
		t.Errorf("global counts = {%d, %d}, want {2, 3}", open, total)
	}
}

func TestUpdateEntry(t *testing.T) {
	database := initTestDB(t)

	e := newTestEntry("BUG-001", entry.TypeBugReport, "/form")
	if err := InsertEntry(database, e); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	before := e.UpdatedAt
	time.Sleep(5 * time.Millisecond)

	e.Title = "updated title"
	e.IsComplete = true
	if err := UpdateEntry(database, e); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}

	got, err := GetEntry(database, "BUG-001")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if got.Title != "updated title" {
		t.Errorf("Title = %q", got.Title)
	}
	if !got.IsComplete {
		t.Error("IsComplete = false, want true")
	}
	if !got.UpdatedAt.After(before) {
		t.Errorf("UpdatedAt = %v, want after %v", got.UpdatedAt, before)
	}
	if !got.CreatedAt.Equal(e.CreatedAt) {
		t.Errorf("CreatedAt changed: %v", got.CreatedAt)
	}
}

func TestUpdateEntry_NotFound(t *testing.T) {
	database := initTestDB(t)

	e := newTestEntry("CR-404", entry.TypeChangeRequest, "/")
	err := UpdateEntry(database, e)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	database := initTestDB(t)

	if err := InsertEntry(database, newTestEntry("NOTE-001", entry.TypeNote, "/")); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	deleted, err := DeleteEntry(database, "NOTE-001")
	if err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if !deleted {
		t.Error("deleted = false, want true")
	}

	// Second delete is a no-op
	deleted, err = DeleteEntry(database, "NOTE-001")
	if err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if deleted {
		t.Error("deleted = true on second delete, want false")
	}
}
