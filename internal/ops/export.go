package ops

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hpungsan/pagelog/internal/config"
	"github.com/hpungsan/pagelog/internal/db"
	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
	"github.com/hpungsan/pagelog/internal/export"
)

// ExportFormat selects the export output format.
type ExportFormat string

const (
	ExportJSON     ExportFormat = "json"
	ExportMarkdown ExportFormat = "markdown"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Format ExportFormat // default: json
	Path   string       // optional, default: {exports}/pagelog-<timestamp>.{json,md}
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt string `json:"exportedAt"`
}

// ExportAll returns every entry, newest-first, fully hydrated with
// attachments. Used only by the export formatter and its callers.
func ExportAll(database *sql.DB) ([]entry.Entry, error) {
	return db.ListEntries(database, db.ListFilter{IncludeComplete: true})
}

// Export renders the full entry set to a file in the requested format,
// writing through a temp file so a failed export never clobbers an existing
// one.
func Export(database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	format := input.Format
	if format == "" {
		format = ExportJSON
	}
	if format != ExportJSON && format != ExportMarkdown {
		return nil, errors.NewInvalidRequest("format must be one of: json, markdown")
	}

	now := entry.Now()

	entries, err := ExportAll(database)
	if err != nil {
		return nil, err
	}

	var content []byte
	switch format {
	case ExportJSON:
		content, err = export.ToJSON(entries, now)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
	case ExportMarkdown:
		content = []byte(export.ToMarkdown(entries))
	}

	exportPath := input.Path
	if exportPath == "" {
		exportPath = defaultExportPath(cfg, format, now)
	}

	if err := writeFileAtomic(exportPath, content); err != nil {
		return nil, err
	}

	return &ExportOutput{
		Path:       exportPath,
		Count:      len(entries),
		ExportedAt: entry.FormatTime(now),
	}, nil
}

// defaultExportPath generates the default export path under the exports
// directory.
func defaultExportPath(cfg *config.Config, format ExportFormat, now time.Time) string {
	ext := "json"
	if format == ExportMarkdown {
		ext = "md"
	}
	filename := fmt.Sprintf("pagelog-%s.%s", now.Format("2006-01-02T150405"), ext)
	return filepath.Join(cfg.ExportsDir, filename)
}

// writeFileAtomic writes content to a temp file next to path, then renames
// it into place.
func writeFileAtomic(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	if err := os.WriteFile(tempPath, content, 0600); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to write export file: %w", err))
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	return nil
}
