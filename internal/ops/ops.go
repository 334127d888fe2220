// Package ops implements the collaborator-facing operations over the entry
// and attachment stores. Each operation takes the shared database handle
// (constructed once at process start by db.Init) plus a typed input, and
// returns a typed output or a structured error. Transport layers (CLI, MCP,
// web) translate these results; they add no semantics of their own.
package ops

import (
	"strings"

	"github.com/hpungsan/pagelog/internal/errors"
)

// requireEntryID trims and validates an entry ID argument.
func requireEntryID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("entry_id is required")
	}
	return id, nil
}

// cleanOptionalString trims an optional string and drops it if empty.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
