package export

import (
	"fmt"
	"strings"

	"github.com/hpungsan/pagelog/internal/entry"
)

// uploadsHint is the relative directory prefix rendered for
// filesystem-backed attachments.
const uploadsHint = "uploads"

// ToMarkdown renders entries as a Markdown report. Entries are grouped by
// page path in first-seen order (input order is newest-first globally, so
// groups appear in the order their most recent entry occurs); within a
// group, entries render in the order received. Each group header appears
// exactly once; a horizontal rule follows each entry.
func ToMarkdown(entries []entry.Entry) string {
	var b strings.Builder

	b.WriteString("# Development Log\n")

	seen := make(map[string]bool)
	order := make([]string, 0)
	groups := make(map[string][]entry.Entry)
	for _, e := range entries {
		if !seen[e.PagePath] {
			seen[e.PagePath] = true
			order = append(order, e.PagePath)
		}
		groups[e.PagePath] = append(groups[e.PagePath], e)
	}

	for _, pagePath := range order {
		fmt.Fprintf(&b, "\n## %s\n", pagePath)
		for _, e := range groups[pagePath] {
			writeEntry(&b, &e)
		}
	}

	return b.String()
}

func writeEntry(b *strings.Builder, e *entry.Entry) {
	fmt.Fprintf(b, "\n### %s: %s\n\n", e.EntryID, e.Title)

	meta := []string{"Type: " + string(e.Type)}
	if e.Priority != nil {
		meta = append(meta, "Priority: "+string(*e.Priority))
	}
	status := "Open"
	if e.IsComplete {
		status = "Complete"
	}
	meta = append(meta, "Status: "+status)
	fmt.Fprintf(b, "%s  \n", strings.Join(meta, " | "))
	fmt.Fprintf(b, "Created: %s\n", entry.FormatTime(e.CreatedAt))

	if e.Description != "" {
		fmt.Fprintf(b, "\n%s\n", e.Description)
	}

	if len(e.Attachments) > 0 {
		b.WriteString("\nAttachments:\n")
		for _, a := range e.Attachments {
			writeAttachment(b, &a)
		}
	}

	b.WriteString("\n---\n")
}

func writeAttachment(b *strings.Builder, a *entry.Attachment) {
	if a.StorageType == entry.StorageFilesystem {
		kind := "file"
		if a.IsImage() {
			kind = "image"
		}
		fmt.Fprintf(b, "- [%s] %s/%s/%s\n", kind, uploadsHint, a.EntryID, a.Filename)
		return
	}
	fmt.Fprintf(b, "- %s (%s, stored in database)\n", a.OriginalName, a.MimeType)
}
