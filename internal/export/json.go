// Package export renders the full entry set as a portable JSON snapshot or a
// human-readable Markdown report. Both outputs are deterministic given the
// same entry set (and, for JSON, the same export timestamp).
package export

import (
	"encoding/json"
	"time"

	"github.com/hpungsan/pagelog/internal/entry"
)

// Envelope wraps a JSON export.
type Envelope struct {
	ExportedAt   string        `json:"exportedAt"`
	TotalEntries int           `json:"totalEntries"`
	Entries      []entry.Entry `json:"entries"`
}

// ToJSON renders entries as an indented JSON document wrapped in the export
// envelope. Entries are expected newest-first and fully hydrated, as
// returned by the entry store's full dump.
func ToJSON(entries []entry.Entry, now time.Time) ([]byte, error) {
	if entries == nil {
		entries = []entry.Entry{}
	}

	env := Envelope{
		ExportedAt:   entry.FormatTime(now),
		TotalEntries: len(entries),
		Entries:      entries,
	}

	return json.MarshalIndent(env, "", "  ")
}
