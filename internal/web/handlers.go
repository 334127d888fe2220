package web

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/pagelog/internal/config"
	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
	"github.com/hpungsan/pagelog/internal/export"
	"github.com/hpungsan/pagelog/internal/ops"
)

// Handlers contains HTTP route handlers for the JSON API.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// createRequest is the POST /entries body.
type createRequest struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    *string `json:"priority"`
	PageURL     string  `json:"pageUrl"`
	PagePath    string  `json:"pagePath"`
	UserAgent   *string `json:"userAgent"`
}

// updateRequest is the PATCH /entries/{id} body. Absent fields are left
// unchanged.
type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	IsComplete  *bool   `json:"isComplete"`
}

// HandleCreate handles POST /entries.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewInvalidRequest("invalid JSON body"))
		return
	}

	userAgent := req.UserAgent
	if userAgent == nil {
		if ua := r.UserAgent(); ua != "" {
			userAgent = &ua
		}
	}

	result, err := ops.Create(h.db, ops.CreateInput{
		Type:        entry.Type(req.Type),
		Title:       req.Title,
		Description: req.Description,
		Priority:    toPriority(req.Priority),
		PageURL:     req.PageURL,
		PagePath:    req.PagePath,
		UserAgent:   userAgent,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleList handles GET /entries.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		PagePath:        queryPtr(r, "pagePath"),
		IncludeComplete: r.URL.Query().Get("includeComplete") == "true",
	}
	if t := r.URL.Query().Get("type"); t != "" {
		typ := entry.Type(t)
		input.Type = &typ
	}

	result, err := ops.List(h.db, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleGet handles GET /entries/{id}.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Get(h.db, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleUpdate handles PATCH /entries/{id}.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewInvalidRequest("invalid JSON body"))
		return
	}

	result, err := ops.Update(h.db, ops.UpdateInput{
		EntryID:     r.PathValue("id"),
		Title:       req.Title,
		Description: req.Description,
		Priority:    toPriority(req.Priority),
		IsComplete:  req.IsComplete,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleDelete handles DELETE /entries/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Delete(h.db, h.cfg, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !result.Deleted {
		writeError(w, errors.NewNotFound("entry", result.EntryID))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleAttachmentAdd handles POST /entries/{id}/attachments (multipart).
func (h *Handlers) HandleAttachmentAdd(w http.ResponseWriter, r *http.Request) {
	entryID := r.PathValue("id")

	// The owning entry must exist before any bytes are accepted
	if _, err := ops.Get(h.db, entryID); err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(h.cfg.MaxAttachmentBytes); err != nil {
		writeError(w, errors.NewInvalidRequest("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.NewInvalidRequest("missing file field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxAttachmentBytes+1))
	if err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}
	if int64(len(data)) > h.cfg.MaxAttachmentBytes {
		writeError(w, errors.NewInvalidRequest("attachment exceeds maximum size"))
		return
	}

	result, err := ops.AddAttachment(h.db, h.cfg, ops.AddAttachmentInput{
		EntryID:  entryID,
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleAttachmentGet handles GET /attachments/{id} — serves the raw bytes.
func (h *Handlers) HandleAttachmentGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, errors.NewInvalidRequest("attachment id must be an integer"))
		return
	}

	result, err := ops.GetAttachment(h.db, id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.Attachment.MimeType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("inline; filename=%q", result.Attachment.OriginalName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// HandleAttachmentDelete handles DELETE /attachments/{id}.
func (h *Handlers) HandleAttachmentDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, errors.NewInvalidRequest("attachment id must be an integer"))
		return
	}

	result, err := ops.DeleteAttachment(h.db, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !result.Deleted {
		writeError(w, errors.NewNotFound("attachment", r.PathValue("id")))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleCount handles GET /count.
func (h *Handlers) HandleCount(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Count(h.db, ops.CountInput{
		PagePath: queryPtr(r, "pagePath"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleExportJSON handles GET /export.json.
func (h *Handlers) HandleExportJSON(w http.ResponseWriter, r *http.Request) {
	entries, err := ops.ExportAll(h.db)
	if err != nil {
		writeError(w, err)
		return
	}

	content, err := export.ToJSON(entries, entry.Now())
	if err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// HandleExportMarkdown handles GET /export.md. With format=html the report
// is rendered through goldmark for in-browser preview.
func (h *Handlers) HandleExportMarkdown(w http.ResponseWriter, r *http.Request) {
	entries, err := ops.ExportAll(h.db)
	if err != nil {
		writeError(w, err)
		return
	}

	md := export.ToMarkdown(entries)

	if r.URL.Query().Get("format") == "html" {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(md), &buf); err != nil {
			writeError(w, errors.NewInternal(err))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, md)
}

// Helpers

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps a structured error to its HTTP status and writes the JSON
// error payload. Internal error details are not exposed.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	payload := map[string]any{
		"code":    "INTERNAL",
		"message": "an internal error occurred",
	}

	if pErr, ok := err.(*errors.PagelogError); ok {
		status = pErr.Status
		if pErr.Code != errors.ErrInternal {
			payload["code"] = pErr.Code
			payload["message"] = pErr.Message
			if pErr.Details != nil {
				payload["details"] = pErr.Details
			}
		}
	}

	writeJSON(w, status, map[string]any{"error": payload})
}

// queryPtr returns a pointer to a query parameter, or nil if absent.
func queryPtr(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// toPriority converts an optional priority string to the domain type.
func toPriority(s *string) *entry.Priority {
	if s == nil || *s == "" {
		return nil
	}
	p := entry.Priority(*s)
	return &p
}
