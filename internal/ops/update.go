package ops

import (
	"database/sql"

	"github.com/hpungsan/pagelog/internal/db"
	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
)

// UpdateInput contains parameters for the Update operation.
// Nil editable fields are left unchanged.
type UpdateInput struct {
	EntryID string

	Title       *string
	Description *string
	Priority    *entry.Priority
	IsComplete  *bool
}

// Update applies a partial mutation to an entry and refreshes updated_at.
// Returns the updated entry, hydrated with its attachments.
func Update(database *sql.DB, input UpdateInput) (*entry.Entry, error) {
	id, err := requireEntryID(input.EntryID)
	if err != nil {
		return nil, err
	}

	if input.Title == nil && input.Description == nil && input.Priority == nil && input.IsComplete == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	// Fetch existing entry; not-found propagates from here
	e, err := db.GetEntry(database, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		e.Title = *input.Title
	}
	if input.Description != nil {
		e.Description = *input.Description
	}
	if input.Priority != nil {
		e.Priority = input.Priority
	}
	if input.IsComplete != nil {
		e.IsComplete = *input.IsComplete
	}

	if err := db.UpdateEntry(database, e); err != nil {
		return nil, err
	}

	return e, nil
}
