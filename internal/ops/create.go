package ops

import (
	"database/sql"

	"github.com/hpungsan/pagelog/internal/db"
	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Type        entry.Type
	Title       string
	Description string // default: empty string
	Priority    *entry.Priority
	PageURL     string
	PagePath    string // normalized before storage
	UserAgent   *string
}

// Create allocates a human-readable ID and inserts a new entry. The store
// requires type, title, page_url, and page_path to be present; richer
// validation (e.g. notes must not carry a priority) is a caller concern.
// Returns the fully hydrated entry with an empty attachments list.
func Create(database *sql.DB, input CreateInput) (*entry.Entry, error) {
	if input.Type == "" {
		return nil, errors.NewInvalidRequest("type is required")
	}
	if input.Title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	if input.PageURL == "" {
		return nil, errors.NewInvalidRequest("page_url is required")
	}
	if input.PagePath == "" {
		return nil, errors.NewInvalidRequest("page_path is required")
	}

	entryID, err := db.AllocateEntryID(database, input.Type)
	if err != nil {
		return nil, err
	}

	now := entry.Now()
	e := &entry.Entry{
		EntryID:     entryID,
		Type:        input.Type,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		PageURL:     input.PageURL,
		PagePath:    entry.NormalizePath(input.PagePath),
		UserAgent:   cleanOptionalString(input.UserAgent),
		CreatedAt:   now,
		UpdatedAt:   now,
		Attachments: []entry.Attachment{},
	}

	if err := db.InsertEntry(database, e); err != nil {
		return nil, err
	}

	return e, nil
}
