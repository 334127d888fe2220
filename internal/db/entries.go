package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
)

// InsertEntry stores a new entry row. The entry's EntryID must already be
// allocated and its timestamps assigned. RowID is filled in on success.
func InsertEntry(db *sql.DB, e *entry.Entry) error {
	query := `
		INSERT INTO entries (
			entry_id, type, title, description, priority,
			is_complete, page_url, page_path, user_agent,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query,
		e.EntryID, string(e.Type), e.Title, e.Description, priorityToNull(e.Priority),
		boolToInt(e.IsComplete), e.PageURL, e.PagePath, toNullString(e.UserAgent),
		entry.FormatTime(e.CreatedAt), entry.FormatTime(e.UpdatedAt),
	)
	if err != nil {
		if isConstraintError(err) {
			return errors.NewConstraintViolation(err)
		}
		return errors.NewInternal(err)
	}

	rowID, err := result.LastInsertId()
	if err != nil {
		return errors.NewInternal(err)
	}
	e.RowID = rowID

	return nil
}

// isConstraintError checks if the error is a SQLite constraint violation
// (CHECK, UNIQUE, NOT NULL, or FOREIGN KEY).
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "constraint failed")
}

// GetEntry retrieves an entry by its public ID, hydrated with its
// attachments ordered by creation time ascending.
func GetEntry(db *sql.DB, entryID string) (*entry.Entry, error) {
	query := entrySelect + ` WHERE entry_id = ?`

	e, err := scanEntry(db.QueryRow(query, entryID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("entry", entryID)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	attachments, err := ListAttachments(db, entryID)
	if err != nil {
		return nil, err
	}
	e.Attachments = attachments

	return e, nil
}

// ListFilter narrows ListEntries results. Nil fields are not applied.
type ListFilter struct {
	PagePath        *string
	Type            *entry.Type
	IncludeComplete bool
}

// ListEntries returns entries matching all supplied filters, newest-first by
// creation time, each hydrated with its attachments.
func ListEntries(db *sql.DB, filter ListFilter) ([]entry.Entry, error) {
	query := entrySelect
	var conds []string
	var args []any

	if filter.PagePath != nil {
		conds = append(conds, "page_path = ?")
		args = append(args, *filter.PagePath)
	}
	if filter.Type != nil {
		conds = append(conds, "type = ?")
		args = append(args, string(*filter.Type))
	}
	if !filter.IncludeComplete {
		conds = append(conds, "is_complete = 0")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	entries := make([]entry.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	for i := range entries {
		attachments, err := ListAttachments(db, entries[i].EntryID)
		if err != nil {
			return nil, err
		}
		entries[i].Attachments = attachments
	}

	return entries, nil
}

// OpenCount returns the number of incomplete entries for pagePath, or
// globally when pagePath is nil. This drives the badge counter and
// deliberately ignores any type filter on the surrounding list query.
func OpenCount(db *sql.DB, pagePath *string) (int, error) {
	query := "SELECT COUNT(*) FROM entries WHERE is_complete = 0"
	var args []any
	if pagePath != nil {
		query += " AND page_path = ?"
		args = append(args, *pagePath)
	}

	var count int
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// CountEntries returns the open and total entry counts for pagePath, or
// globally when pagePath is nil.
func CountEntries(db *sql.DB, pagePath *string) (open, total int, err error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN is_complete = 0 THEN 1 ELSE 0 END), 0),
			COUNT(*)
		FROM entries
	`
	var args []any
	if pagePath != nil {
		query += " WHERE page_path = ?"
		args = append(args, *pagePath)
	}

	if err := db.QueryRow(query, args...).Scan(&open, &total); err != nil {
		return 0, 0, errors.NewInternal(err)
	}
	return open, total, nil
}

// UpdateEntry persists the mutable fields of an existing entry
// (title, description, priority, is_complete) and refreshes updated_at.
// Does NOT change: entry_id, type, page_url, page_path, user_agent, created_at.
func UpdateEntry(db *sql.DB, e *entry.Entry) error {
	now := entry.Now()

	query := `
		UPDATE entries
		SET title = ?, description = ?, priority = ?, is_complete = ?, updated_at = ?
		WHERE entry_id = ?
	`

	result, err := db.Exec(query,
		e.Title, e.Description, priorityToNull(e.Priority),
		boolToInt(e.IsComplete), entry.FormatTime(now),
		e.EntryID,
	)
	if err != nil {
		if isConstraintError(err) {
			return errors.NewConstraintViolation(err)
		}
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("entry", e.EntryID)
	}

	e.UpdatedAt = now

	return nil
}

// DeleteEntry removes the entry row; attachment rows cascade via the
// foreign key. Returns whether a row was actually removed.
func DeleteEntry(db *sql.DB, entryID string) (bool, error) {
	result, err := db.Exec("DELETE FROM entries WHERE entry_id = ?", entryID)
	if err != nil {
		return false, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return rowsAffected > 0, nil
}

// entrySelect is the shared column list for entry scans.
const entrySelect = `
	SELECT id, entry_id, type, title, description, priority,
		is_complete, page_url, page_path, user_agent,
		created_at, updated_at
	FROM entries`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry scans a single row into an Entry struct (attachments not loaded).
func scanEntry(row rowScanner) (*entry.Entry, error) {
	var (
		e          entry.Entry
		typ        string
		priority   sql.NullString
		isComplete int
		userAgent  sql.NullString
		createdAt  string
		updatedAt  string
	)

	err := row.Scan(
		&e.RowID, &e.EntryID, &typ, &e.Title, &e.Description, &priority,
		&isComplete, &e.PageURL, &e.PagePath, &userAgent,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Type = entry.Type(typ)
	e.IsComplete = isComplete != 0
	e.UserAgent = fromNullString(userAgent)
	if priority.Valid {
		p := entry.Priority(priority.String)
		e.Priority = &p
	}

	if e.CreatedAt, err = entry.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	if e.UpdatedAt, err = entry.ParseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at %q: %w", updatedAt, err)
	}

	return &e, nil
}

// priorityToNull converts a *entry.Priority to sql.NullString.
func priorityToNull(p *entry.Priority) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// boolToInt converts a bool to the 0/1 SQLite stores.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
