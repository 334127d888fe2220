package db

import (
	"database/sql"
	"fmt"

	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
)

// AllocateEntryID atomically claims the next sequence number for the given
// type and returns the formatted entry ID (e.g. "BUG-007"). The
// read-increment-return is a single UPDATE ... RETURNING statement so two
// concurrent callers can never obtain the same number. Numbers are never
// reused, even after entry deletion.
func AllocateEntryID(db *sql.DB, t entry.Type) (string, error) {
	query := `
		UPDATE counters
		SET next_number = next_number + 1
		WHERE type = ?
		RETURNING next_number - 1
	`

	var seq int64
	err := db.QueryRow(query, string(t)).Scan(&seq)
	if err == sql.ErrNoRows {
		// Counters are seeded at schema creation; a missing row means the
		// caller passed an unknown type.
		return "", errors.NewInvalidRequest(fmt.Sprintf("unknown entry type: %s", t))
	}
	if err != nil {
		return "", errors.NewInternal(err)
	}

	return entry.FormatID(t, seq), nil
}

// NextNumber returns the next unclaimed sequence number for a type without
// consuming it. Diagnostic use only.
func NextNumber(db *sql.DB, t entry.Type) (int64, error) {
	var n int64
	err := db.QueryRow("SELECT next_number FROM counters WHERE type = ?", string(t)).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("unknown entry type: %s", t))
	}
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}
