package ops

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/pagelog/internal/config"
	"github.com/hpungsan/pagelog/internal/db"
	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
)

// AddAttachmentInput contains parameters for the AddAttachment operation.
type AddAttachmentInput struct {
	EntryID  string
	Name     string // original user-facing filename
	MimeType string // default: application/octet-stream
	Data     []byte
}

// AddAttachment binds a file to an existing entry. The owning entry must
// exist; callers are expected to check first, and a missing entry surfaces
// as the foreign-key constraint violation. The storage mode is process-wide
// (cfg.StorageMode) and applies only to this write:
//
//   - filesystem: bytes go to {uploads}/{entryId}/{filename}, path stored
//   - blob: bytes are embedded in the row, path left absent
//
// The stored filename is a random ULID prefix plus the sanitized original
// name, so two uploads of the same file never collide. Returns the stored
// attachment's metadata, not its bytes.
func AddAttachment(database *sql.DB, cfg *config.Config, input AddAttachmentInput) (*entry.Attachment, error) {
	entryID, err := requireEntryID(input.EntryID)
	if err != nil {
		return nil, err
	}
	if len(input.Data) == 0 {
		return nil, errors.NewInvalidRequest("attachment data is required")
	}

	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	filename := fmt.Sprintf("%s-%s", ulid.Make().String(), entry.SanitizeFilename(input.Name))

	a := &entry.Attachment{
		EntryID:      entryID,
		Filename:     filename,
		OriginalName: input.Name,
		MimeType:     mimeType,
		SizeBytes:    int64(len(input.Data)),
		StorageType:  cfg.StorageMode,
		CreatedAt:    entry.Now(),
	}

	var writtenPath string
	switch cfg.StorageMode {
	case entry.StorageFilesystem:
		dir := filepath.Join(cfg.UploadsDir, entryID)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.NewInternal(fmt.Errorf("failed to create attachment directory: %w", err))
		}
		writtenPath = filepath.Join(dir, filename)
		if err := os.WriteFile(writtenPath, input.Data, 0600); err != nil {
			return nil, errors.NewInternal(fmt.Errorf("failed to write attachment file: %w", err))
		}
		a.FilePath = &writtenPath
	case entry.StorageBlob:
		a.BlobData = input.Data
	default:
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown storage mode: %s", cfg.StorageMode))
	}

	if err := db.InsertAttachment(database, a); err != nil {
		// Row insert failed; don't leave orphan bytes on disk
		if writtenPath != "" {
			_ = os.Remove(writtenPath)
		}
		return nil, err
	}

	meta := *a
	meta.BlobData = nil
	return &meta, nil
}
