package mcp

import "github.com/mark3labs/mcp-go/mcp"

var createToolDef = mcp.NewTool("entry_create",
	mcp.WithDescription("Create a new log entry (change request, bug report, or note) tagged to a page route"),
	mcp.WithString("type", mcp.Required(), mcp.Description("Entry type: change_request, bug_report, or note")),
	mcp.WithString("title", mcp.Required(), mcp.Description("Short title")),
	mcp.WithString("description", mcp.Description("Longer description (default: empty)")),
	mcp.WithString("priority", mcp.Description("Priority: low, medium, high, or critical (omit for notes)")),
	mcp.WithString("page_url", mcp.Required(), mcp.Description("Full page URL at creation time")),
	mcp.WithString("page_path", mcp.Required(), mcp.Description("Page path used for grouping (normalized by the store)")),
	mcp.WithString("user_agent", mcp.Description("Optional diagnostic user agent string")),
)

var getToolDef = mcp.NewTool("entry_get",
	mcp.WithDescription("Fetch one entry with its attachments by entry ID (e.g. BUG-003)"),
	mcp.WithString("entry_id", mcp.Required(), mcp.Description("Public entry ID")),
)

var listToolDef = mcp.NewTool("entry_list",
	mcp.WithDescription("List entries newest-first with an open count for the page-path scope"),
	mcp.WithString("page_path", mcp.Description("Filter by page path")),
	mcp.WithString("type", mcp.Description("Filter by entry type")),
	mcp.WithBoolean("include_complete", mcp.Description("Include completed entries (default false)")),
)

var updateToolDef = mcp.NewTool("entry_update",
	mcp.WithDescription("Apply a partial update to an entry; omitted fields keep their values"),
	mcp.WithString("entry_id", mcp.Required(), mcp.Description("Public entry ID")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("description", mcp.Description("New description")),
	mcp.WithString("priority", mcp.Description("New priority")),
	mcp.WithBoolean("is_complete", mcp.Description("New completion state")),
)

var deleteToolDef = mcp.NewTool("entry_delete",
	mcp.WithDescription("Delete an entry with all of its attachments (rows and on-disk files)"),
	mcp.WithString("entry_id", mcp.Required(), mcp.Description("Public entry ID")),
)

var countToolDef = mcp.NewTool("entry_count",
	mcp.WithDescription("Return open/total entry counts for a page path, or globally"),
	mcp.WithString("page_path", mcp.Description("Page path scope (omit for global counts)")),
)

var attachmentAddToolDef = mcp.NewTool("attachment_add",
	mcp.WithDescription("Attach a file to an entry; content is base64-encoded"),
	mcp.WithString("entry_id", mcp.Required(), mcp.Description("Owning entry ID")),
	mcp.WithString("name", mcp.Required(), mcp.Description("Original filename")),
	mcp.WithString("mime_type", mcp.Description("MIME type (default application/octet-stream)")),
	mcp.WithString("content", mcp.Required(), mcp.Description("Base64-encoded file bytes")),
)

var attachmentGetToolDef = mcp.NewTool("attachment_get",
	mcp.WithDescription("Fetch attachment metadata and base64-encoded bytes"),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Attachment ID")),
)

var attachmentDeleteToolDef = mcp.NewTool("attachment_delete",
	mcp.WithDescription("Delete a single attachment without deleting its owning entry"),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Attachment ID")),
)

var exportToolDef = mcp.NewTool("entry_export",
	mcp.WithDescription("Export all entries to a JSON snapshot or Markdown report file"),
	mcp.WithString("format", mcp.Description("Export format: json (default) or markdown")),
	mcp.WithString("path", mcp.Description("Output path (default: exports directory)")),
)
