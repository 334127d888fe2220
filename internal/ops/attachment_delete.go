package ops

import (
	"database/sql"
	"os"

	"github.com/hpungsan/pagelog/internal/db"
	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
)

// DeleteAttachmentOutput contains the result of the DeleteAttachment
// operation.
type DeleteAttachmentOutput struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

// DeleteAttachment removes a single attachment without touching its owning
// entry. The on-disk file (filesystem mode) is removed best-effort before
// the row; a file that is already gone is success. Deleted reports whether
// a row was actually removed.
func DeleteAttachment(database *sql.DB, id int64) (*DeleteAttachmentOutput, error) {
	a, err := db.GetAttachment(database, id)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return &DeleteAttachmentOutput{Deleted: false, ID: id}, nil
		}
		return nil, err
	}

	if a.StorageType == entry.StorageFilesystem && a.FilePath != nil {
		_ = os.Remove(*a.FilePath)
	}

	deleted, err := db.DeleteAttachment(database, id)
	if err != nil {
		return nil, err
	}

	return &DeleteAttachmentOutput{
		Deleted: deleted,
		ID:      id,
	}, nil
}
