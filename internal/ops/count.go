package ops

import (
	"database/sql"

	"github.com/hpungsan/pagelog/internal/db"
	"github.com/hpungsan/pagelog/internal/entry"
)

// CountInput contains parameters for the Count operation. A nil PagePath
// counts globally.
type CountInput struct {
	PagePath *string
}

// CountOutput contains the open and total entry counts for the scope.
type CountOutput struct {
	OpenCount  int `json:"openCount"`
	TotalCount int `json:"totalCount"`
}

// Count returns open/total entry counts for a page path, or globally.
func Count(database *sql.DB, input CountInput) (*CountOutput, error) {
	pagePath := cleanOptionalString(input.PagePath)
	if pagePath != nil {
		normalized := entry.NormalizePath(*pagePath)
		pagePath = &normalized
	}

	open, total, err := db.CountEntries(database, pagePath)
	if err != nil {
		return nil, err
	}

	return &CountOutput{
		OpenCount:  open,
		TotalCount: total,
	}, nil
}
