package http

import (
	"net/http"
	"strconv"

	"replydesk/internal/domain/message"
	"replydesk/internal/domain/pending"
	"replydesk/internal/port/auditlog"
	"replydesk/internal/service"
)

const (
	// maxMessageBody caps inbound message payloads.
	maxMessageBody = 64 << 10 // 64 KiB

	// defaultLogLimit is how many audit records /logs returns by default.
	defaultLogLimit = 50
)

// Handlers bundles the HTTP handlers with their service dependencies.
type Handlers struct {
	Dispatch *service.DispatchService
	Pending  *service.PendingService
	Audit    auditlog.Log
}

// NewHandlers creates the handler set.
func NewHandlers(dispatch *service.DispatchService, pendingSvc *service.PendingService, audit auditlog.Log) *Handlers {
	return &Handlers{
		Dispatch: dispatch,
		Pending:  pendingSvc,
		Audit:    audit,
	}
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// ProcessMessage runs one employer message through the full pipeline and
// returns the terminal outcome.
//
//	POST /api/v1/message
func (h *Handlers) ProcessMessage(w http.ResponseWriter, r *http.Request) {
	msg, ok := readJSON[message.Inbound](w, r, maxMessageBody)
	if !ok {
		return
	}

	outcome, err := h.Dispatch.Process(r.Context(), msg)
	if err != nil {
		writeDomainError(w, err, "message could not be processed")
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// ---------------------------------------------------------------------------
// Pending items
// ---------------------------------------------------------------------------

// ListPending returns pending items, newest first.
//
//	GET /api/v1/pending?status=pending|answered
func (h *Handlers) ListPending(w http.ResponseWriter, r *http.Request) {
	var filter *pending.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := pending.ParseStatus(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "status must be 'pending' or 'answered'")
			return
		}
		filter = &status
	}

	items, err := h.Pending.List(r.Context(), filter)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if items == nil {
		items = []pending.Item{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

// GetPending returns a single pending item by ID.
//
//	GET /api/v1/pending/{id}
func (h *Handlers) GetPending(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")

	item, err := h.Pending.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "pending item not found")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

type respondRequest struct {
	Response string `json:"response"`
}

// RespondPending records the human's answer for a pending item.
//
//	POST /api/v1/pending/{id}/respond
func (h *Handlers) RespondPending(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")

	req, ok := readJSON[respondRequest](w, r, maxMessageBody)
	if !ok {
		return
	}

	item, err := h.Pending.Respond(r.Context(), id, req.Response)
	if err != nil {
		writeDomainError(w, err, "pending item not found")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// ---------------------------------------------------------------------------
// Audit log
// ---------------------------------------------------------------------------

// ListLogs returns recent audit records, newest first.
//
//	GET /api/v1/logs?limit=N
func (h *Handlers) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.Audit.Recent(r.Context(), limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if records == nil {
		records = []auditlog.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}
