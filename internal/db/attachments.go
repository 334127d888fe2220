package db

import (
	"database/sql"
	"fmt"

	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
)

// InsertAttachment stores a new attachment row. Exactly one of FilePath and
// BlobData must be populated, matching StorageType. ID is filled in on
// success.
func InsertAttachment(db *sql.DB, a *entry.Attachment) error {
	query := `
		INSERT INTO attachments (
			entry_id, filename, original_name, mime_type, size_bytes,
			storage_type, blob_data, file_path, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var blob any
	if a.BlobData != nil {
		blob = a.BlobData
	}

	result, err := db.Exec(query,
		a.EntryID, a.Filename, a.OriginalName, a.MimeType, a.SizeBytes,
		string(a.StorageType), blob, toNullString(a.FilePath),
		entry.FormatTime(a.CreatedAt),
	)
	if err != nil {
		if isConstraintError(err) {
			return errors.NewConstraintViolation(err)
		}
		return errors.NewInternal(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.NewInternal(err)
	}
	a.ID = id

	return nil
}

// GetAttachment retrieves an attachment row by ID, including blob bytes for
// blob-backed attachments.
func GetAttachment(db *sql.DB, id int64) (*entry.Attachment, error) {
	query := `
		SELECT id, entry_id, filename, original_name, mime_type, size_bytes,
			storage_type, blob_data, file_path, created_at
		FROM attachments
		WHERE id = ?
	`

	var (
		a           entry.Attachment
		storageType string
		blob        []byte
		filePath    sql.NullString
		createdAt   string
	)

	err := db.QueryRow(query, id).Scan(
		&a.ID, &a.EntryID, &a.Filename, &a.OriginalName, &a.MimeType, &a.SizeBytes,
		&storageType, &blob, &filePath, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("attachment", fmt.Sprintf("%d", id))
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	a.StorageType = entry.StorageType(storageType)
	a.BlobData = blob
	a.FilePath = fromNullString(filePath)
	if a.CreatedAt, err = entry.ParseTime(createdAt); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("bad created_at %q: %w", createdAt, err))
	}

	return &a, nil
}

// ListAttachments returns attachment metadata for an entry, ordered by
// creation time ascending. Blob bytes are not loaded; use GetAttachment to
// read content.
func ListAttachments(db *sql.DB, entryID string) ([]entry.Attachment, error) {
	query := `
		SELECT id, entry_id, filename, original_name, mime_type, size_bytes,
			storage_type, file_path, created_at
		FROM attachments
		WHERE entry_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := db.Query(query, entryID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	attachments := make([]entry.Attachment, 0)
	for rows.Next() {
		var (
			a           entry.Attachment
			storageType string
			filePath    sql.NullString
			createdAt   string
		)
		err := rows.Scan(
			&a.ID, &a.EntryID, &a.Filename, &a.OriginalName, &a.MimeType, &a.SizeBytes,
			&storageType, &filePath, &createdAt,
		)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		a.StorageType = entry.StorageType(storageType)
		a.FilePath = fromNullString(filePath)
		if a.CreatedAt, err = entry.ParseTime(createdAt); err != nil {
			return nil, errors.NewInternal(fmt.Errorf("bad created_at %q: %w", createdAt, err))
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return attachments, nil
}

// DeleteAttachment removes an attachment row. Returns whether a row was
// actually removed.
func DeleteAttachment(db *sql.DB, id int64) (bool, error) {
	result, err := db.Exec("DELETE FROM attachments WHERE id = ?", id)
	if err != nil {
		return false, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return rowsAffected > 0, nil
}
