package mcp

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/pagelog/internal/config"
	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
	"github.com/hpungsan/pagelog/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// CreateRequest represents the arguments for entry_create.
type CreateRequest struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	PageURL     string  `json:"page_url"`
	PagePath    string  `json:"page_path"`
	UserAgent   *string `json:"user_agent,omitempty"`
}

// GetRequest represents the arguments for entry_get.
type GetRequest struct {
	EntryID string `json:"entry_id"`
}

// ListRequest represents the arguments for entry_list.
type ListRequest struct {
	PagePath        *string `json:"page_path,omitempty"`
	Type            *string `json:"type,omitempty"`
	IncludeComplete bool    `json:"include_complete,omitempty"`
}

// UpdateRequest represents the arguments for entry_update.
type UpdateRequest struct {
	EntryID     string  `json:"entry_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	IsComplete  *bool   `json:"is_complete,omitempty"`
}

// DeleteRequest represents the arguments for entry_delete.
type DeleteRequest struct {
	EntryID string `json:"entry_id"`
}

// CountRequest represents the arguments for entry_count.
type CountRequest struct {
	PagePath *string `json:"page_path,omitempty"`
}

// AttachmentAddRequest represents the arguments for attachment_add.
type AttachmentAddRequest struct {
	EntryID  string `json:"entry_id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type,omitempty"`
	Content  string `json:"content"`
}

// AttachmentGetRequest represents the arguments for attachment_get.
type AttachmentGetRequest struct {
	ID int64 `json:"id"`
}

// AttachmentDeleteRequest represents the arguments for attachment_delete.
type AttachmentDeleteRequest struct {
	ID int64 `json:"id"`
}

// ExportRequest represents the arguments for entry_export.
type ExportRequest struct {
	Format string `json:"format,omitempty"`
	Path   string `json:"path,omitempty"`
}

// Handler implementations

// HandleCreate handles the entry_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var priority *entry.Priority
	if input.Priority != nil {
		p := entry.Priority(*input.Priority)
		priority = &p
	}

	result, err := ops.Create(h.db, ops.CreateInput{
		Type:        entry.Type(input.Type),
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		PageURL:     input.PageURL,
		PagePath:    input.PagePath,
		UserAgent:   input.UserAgent,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the entry_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Get(h.db, input.EntryID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the entry_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var typ *entry.Type
	if input.Type != nil {
		t := entry.Type(*input.Type)
		typ = &t
	}

	result, err := ops.List(h.db, ops.ListInput{
		PagePath:        input.PagePath,
		Type:            typ,
		IncludeComplete: input.IncludeComplete,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the entry_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var priority *entry.Priority
	if input.Priority != nil {
		p := entry.Priority(*input.Priority)
		priority = &p
	}

	result, err := ops.Update(h.db, ops.UpdateInput{
		EntryID:     input.EntryID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		IsComplete:  input.IsComplete,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the entry_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(h.db, h.cfg, input.EntryID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCount handles the entry_count tool call.
func (h *Handlers) HandleCount(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CountRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Count(h.db, ops.CountInput{PagePath: input.PagePath})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAttachmentAdd handles the attachment_add tool call.
func (h *Handlers) HandleAttachmentAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AttachmentAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	data, err := base64.StdEncoding.DecodeString(input.Content)
	if err != nil {
		return errorResult(errors.NewInvalidRequest("content must be valid base64")), nil
	}
	if int64(len(data)) > h.cfg.MaxAttachmentBytes {
		return errorResult(errors.NewInvalidRequest("attachment exceeds maximum size")), nil
	}

	// The owning entry must exist; check before writing any bytes
	if _, err := ops.Get(h.db, input.EntryID); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.AddAttachment(h.db, h.cfg, ops.AddAttachmentInput{
		EntryID:  input.EntryID,
		Name:     input.Name,
		MimeType: input.MimeType,
		Data:     data,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// attachmentGetResponse is the attachment_get payload: metadata plus
// base64-encoded bytes.
type attachmentGetResponse struct {
	Attachment entry.Attachment `json:"attachment"`
	Content    string           `json:"content"`
}

// HandleAttachmentGet handles the attachment_get tool call.
func (h *Handlers) HandleAttachmentGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AttachmentGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GetAttachment(h.db, input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(attachmentGetResponse{
		Attachment: result.Attachment,
		Content:    base64.StdEncoding.EncodeToString(result.Data),
	})
}

// HandleAttachmentDelete handles the attachment_delete tool call.
func (h *Handlers) HandleAttachmentDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AttachmentDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeleteAttachment(h.db, input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the entry_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(h.db, h.cfg, ops.ExportInput{
		Format: ops.ExportFormat(input.Format),
		Path:   input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if pErr, ok := err.(*errors.PagelogError); ok {
		errorObj := map[string]any{
			"code":    pErr.Code,
			"message": pErr.Message,
			"status":  pErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if pErr.Code != errors.ErrInternal && pErr.Details != nil {
			errorObj["details"] = pErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
