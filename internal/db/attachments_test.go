package db

import (
	"bytes"
	"testing"
	"time"

	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
)

func newTestAttachment(entryID, filename string) *entry.Attachment {
	return &entry.Attachment{
		EntryID:      entryID,
		Filename:     filename,
		OriginalName: "original.png",
		MimeType:     "image/png",
		SizeBytes:    3,
		StorageType:  entry.StorageBlob,
		BlobData:     []byte{1, 2, 3},
		CreatedAt:    entry.Now(),
	}
}

func TestInsertAttachment_And_GetAttachment(t *testing.T) {
	database := initTestDB(t)

	if err := InsertEntry(database, newTestEntry("BUG-001", entry.TypeBugReport, "/")); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	a := newTestAttachment("BUG-001", "01X-original.png")
	if err := InsertAttachment(database, a); err != nil {
		t.Fatalf("InsertAttachment failed: %v", err)
	}
	if a.ID == 0 {
		t.Error("ID not assigned")
	}

	got, err := GetAttachment(database, a.ID)
	if err != nil {
		t.Fatalf("GetAttachment failed: %v", err)
	}
	if got.EntryID != "BUG-001" {
		t.Errorf("EntryID = %q", got.EntryID)
	}
	if got.StorageType != entry.StorageBlob {
		t.Errorf("StorageType = %q, want blob", got.StorageType)
	}
	if !bytes.Equal(got.BlobData, []byte{1, 2, 3}) {
		t.Errorf("BlobData = %v, want [1 2 3]", got.BlobData)
	}
	if got.FilePath != nil {
		t.Errorf("FilePath = %v, want nil for blob storage", got.FilePath)
	}
}

func TestInsertAttachment_UnknownEntryRejected(t *testing.T) {
	database := initTestDB(t)

	a := newTestAttachment("BUG-404", "01X-x.png")
	err := InsertAttachment(database, a)
	if !errors.Is(err, errors.ErrConstraintViolation) {
		t.Errorf("error = %v, want CONSTRAINT_VIOLATION (foreign key)", err)
	}
}

func TestListAttachments_OrderAndMetadataOnly(t *testing.T) {
	database := initTestDB(t)

	if err := InsertEntry(database, newTestEntry("CR-001", entry.TypeChangeRequest, "/")); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	base := entry.Now()
	for i, name := range []string{"first.png", "second.png", "third.png"} {
		a := newTestAttachment("CR-001", name)
		a.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := InsertAttachment(database, a); err != nil {
			t.Fatalf("InsertAttachment failed: %v", err)
		}
	}

	got, err := ListAttachments(database, "CR-001")
	if err != nil {
		t.Fatalf("ListAttachments failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d attachments, want 3", len(got))
	}

	// Creation time ascending
	for i, want := range []string{"first.png", "second.png", "third.png"} {
		if got[i].Filename != want {
			t.Errorf("attachment[%d] = %q, want %q", i, got[i].Filename, want)
		}
		// Bytes are not loaded by List
		if got[i].BlobData != nil {
			t.Errorf("attachment[%d] has blob bytes loaded", i)
		}
	}
}

func TestDeleteAttachment(t *testing.T) {
	database := initTestDB(t)

	if err := InsertEntry(database, newTestEntry("NOTE-001", entry.TypeNote, "/")); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}
	a := newTestAttachment("NOTE-001", "01X-a.png")
	if err := InsertAttachment(database, a); err != nil {
		t.Fatalf("InsertAttachment failed: %v", err)
	}

	deleted, err := DeleteAttachment(database, a.ID)
	if err != nil {
		t.Fatalf("DeleteAttachment failed: %v", err)
	}
	if !deleted {
		t.Error("deleted = false, want true")
	}

	// Owning entry survives
	if _, err := GetEntry(database, "NOTE-001"); err != nil {
		t.Errorf("owning entry gone after attachment delete: %v", err)
	}

	deleted, err = DeleteAttachment(database, a.ID)
	if err != nil {
		t.Fatalf("DeleteAttachment failed: %v", err)
	}
	if deleted {
		t.Error("deleted = true on second delete, want false")
	}
}

func TestDeleteEntry_CascadesAttachmentRows(t *testing.T) {
	database := initTestDB(t)

	if err := InsertEntry(database, newTestEntry("BUG-001", entry.TypeBugReport, "/")); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}
	a := newTestAttachment("BUG-001", "01X-a.png")
	if err := InsertAttachment(database, a); err != nil {
		t.Fatalf("InsertAttachment failed: %v", err)
	}

	if _, err := DeleteEntry(database, "BUG-001"); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}

	_, err := GetAttachment(database, a.ID)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("attachment error = %v, want NOT_FOUND after cascade", err)
	}
}
