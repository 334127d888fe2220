package ops

import (
	"database/sql"

	"github.com/hpungsan/pagelog/internal/db"
	"github.com/hpungsan/pagelog/internal/entry"
)

// ListInput contains parameters for the List operation. Nil filters are not
// applied.
type ListInput struct {
	PagePath        *string
	Type            *entry.Type
	IncludeComplete bool
}

// ListOutput contains the result of the List operation. OpenCount is the
// number of incomplete entries for the same page-path scope, independent of
// IncludeComplete, so a badge counter stays accurate while the caller views
// completed entries. It also ignores the Type filter; the badge is
// page-level.
type ListOutput struct {
	Entries   []entry.Entry `json:"entries"`
	OpenCount int           `json:"openCount"`
}

// List retrieves entries matching all supplied filters, newest-first by
// creation time, each hydrated with its attachments.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	pagePath := cleanOptionalString(input.PagePath)
	if pagePath != nil {
		normalized := entry.NormalizePath(*pagePath)
		pagePath = &normalized
	}

	entries, err := db.ListEntries(database, db.ListFilter{
		PagePath:        pagePath,
		Type:            input.Type,
		IncludeComplete: input.IncludeComplete,
	})
	if err != nil {
		return nil, err
	}

	openCount, err := db.OpenCount(database, pagePath)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Entries:   entries,
		OpenCount: openCount,
	}, nil
}
