package ops

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/hpungsan/pagelog/internal/config"
	"github.com/hpungsan/pagelog/internal/db"
	"github.com/hpungsan/pagelog/internal/entry"
)

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	EntryID string `json:"entryId"`
}

// Delete removes an entry and everything it owns: filesystem-backed
// attachment files, the entry's upload directory, and the entry row (which
// cascades attachment rows via the foreign key). File and directory removal
// is best-effort; a target that is already gone is success. Deleted reports
// whether an entry row was actually removed.
func Delete(database *sql.DB, cfg *config.Config, entryID string) (*DeleteOutput, error) {
	id, err := requireEntryID(entryID)
	if err != nil {
		return nil, err
	}

	attachments, err := db.ListAttachments(database, id)
	if err != nil {
		return nil, err
	}

	for _, a := range attachments {
		if a.StorageType == entry.StorageFilesystem && a.FilePath != nil {
			_ = os.Remove(*a.FilePath)
		}
	}
	_ = os.RemoveAll(filepath.Join(cfg.UploadsDir, id))

	deleted, err := db.DeleteEntry(database, id)
	if err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: deleted,
		EntryID: id,
	}, nil
}
