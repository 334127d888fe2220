package ops

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/hpungsan/pagelog/internal/db"
	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
)

// AttachmentContent pairs attachment metadata with its bytes.
type AttachmentContent struct {
	Attachment entry.Attachment `json:"attachment"`
	Data       []byte           `json:"-"`
}

// GetAttachment retrieves an attachment's metadata and bytes. For
// filesystem-backed attachments the bytes are read from disk; a row whose
// file has been removed out-of-band is reported as not-found, never as a
// crash.
func GetAttachment(database *sql.DB, id int64) (*AttachmentContent, error) {
	a, err := db.GetAttachment(database, id)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch a.StorageType {
	case entry.StorageFilesystem:
		if a.FilePath == nil {
			return nil, errors.NewNotFound("attachment", fmt.Sprintf("%d", id))
		}
		data, err = os.ReadFile(*a.FilePath)
		if err != nil {
			if os.IsNotExist(err) {
				// Dangling reference: the row survived but the file is gone
				return nil, errors.NewNotFound("attachment", fmt.Sprintf("%d", id))
			}
			return nil, errors.NewInternal(err)
		}
	case entry.StorageBlob:
		data = a.BlobData
	default:
		return nil, errors.NewInternal(fmt.Errorf("unknown storage type: %s", a.StorageType))
	}

	meta := *a
	meta.BlobData = nil
	return &AttachmentContent{
		Attachment: meta,
		Data:       data,
	}, nil
}
