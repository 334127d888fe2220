package ops

import (
	"database/sql"

	"github.com/hpungsan/pagelog/internal/db"
	"github.com/hpungsan/pagelog/internal/entry"
)

// Get retrieves an entry by its public ID, hydrated with its attachments
// ordered by creation time ascending.
func Get(database *sql.DB, entryID string) (*entry.Entry, error) {
	id, err := requireEntryID(entryID)
	if err != nil {
		return nil, err
	}

	return db.GetEntry(database, id)
}
