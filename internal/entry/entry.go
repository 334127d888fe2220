package entry

import (
	"fmt"
	"time"
)

// Type classifies an entry.
type Type string

const (
	TypeChangeRequest Type = "change_request"
	TypeBugReport     Type = "bug_report"
	TypeNote          Type = "note"
)

// Valid reports whether t is a known entry type.
func (t Type) Valid() bool {
	switch t {
	case TypeChangeRequest, TypeBugReport, TypeNote:
		return true
	}
	return false
}

// Prefix returns the human-readable ID prefix for the type.
func (t Type) Prefix() string {
	switch t {
	case TypeChangeRequest:
		return "CR"
	case TypeBugReport:
		return "BUG"
	case TypeNote:
		return "NOTE"
	}
	return ""
}

// Priority is the urgency of a change request or bug report.
// Notes never carry a priority; that is enforced by callers, not the store.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// StorageType selects how attachment bytes are persisted.
type StorageType string

const (
	StorageFilesystem StorageType = "filesystem"
	StorageBlob       StorageType = "blob"
)

// Valid reports whether s is a known storage type.
func (s StorageType) Valid() bool {
	return s == StorageFilesystem || s == StorageBlob
}

// Entry is a logged unit of work tagged to a page route.
type Entry struct {
	// RowID is the internal surrogate key assigned by SQLite.
	RowID int64 `json:"-"`

	// EntryID is the public human-readable identifier, e.g. "BUG-003".
	// Unique, assigned at creation, immutable thereafter.
	EntryID string `json:"entryId"`

	Type Type `json:"type"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// Priority is nil for entries without one (always nil for notes).
	Priority *Priority `json:"priority,omitempty"`

	IsComplete bool `json:"isComplete"`

	// PageURL is the full URL at creation time; PagePath is the normalized
	// path component used for grouping and matching.
	PageURL  string `json:"pageUrl"`
	PagePath string `json:"pagePath"`

	UserAgent *string `json:"userAgent,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Attachments are ordered by creation time ascending.
	Attachments []Attachment `json:"attachments"`
}

// Attachment is a file bound to exactly one entry.
// Exactly one of FilePath and BlobData is populated, per StorageType.
type Attachment struct {
	ID           int64       `json:"id"`
	EntryID      string      `json:"entryId"`
	Filename     string      `json:"filename"`
	OriginalName string      `json:"originalName"`
	MimeType     string      `json:"mimeType"`
	SizeBytes    int64       `json:"sizeBytes"`
	StorageType  StorageType `json:"storageType"`
	FilePath     *string     `json:"filePath,omitempty"`
	BlobData     []byte      `json:"-"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// IsImage reports whether the attachment is an image by MIME prefix.
func (a *Attachment) IsImage() bool {
	return len(a.MimeType) >= 6 && a.MimeType[:6] == "image/"
}

// FormatID renders an entry ID as {PREFIX}-{seq}, zero-padded to three
// digits. Sequence numbers past 999 widen naturally.
func FormatID(t Type, seq int64) string {
	return fmt.Sprintf("%s-%03d", t.Prefix(), seq)
}

// TimeLayout is the stored timestamp format: UTC RFC3339 with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Now returns the current UTC time truncated to storage precision.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// FormatTime renders t in the stored timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
