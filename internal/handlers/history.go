package handlers

import (
	"net/http"
	"strconv"

	"knowledge-rag/internal/contextutil"
	"knowledge-rag/internal/memory"
	"knowledge-rag/internal/service"
)

// HistoryHandler exposes the conversation memory: GET returns recent
// exchanges, DELETE clears them.
type HistoryHandler struct {
	session service.SessionService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(session service.SessionService) *HistoryHandler {
	return &HistoryHandler{session: session}
}

// HistoryResponse represents the response for a history listing.
type HistoryResponse struct {
	Exchanges []memory.Exchange `json:"exchanges"`
	Count     int               `json:"count"`
}

// ClearHistoryResponse represents the response for a history clear.
type ClearHistoryResponse struct {
	Removed int `json:"removed"`
}

// ServeHTTP dispatches on method.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		h.getHistory(w, r)
	case http.MethodDelete:
		h.clearHistory(w, r)
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// getHistory returns at most ?n= recent exchanges, oldest first.
func (h *HistoryHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n := memory.DefaultMaxRetained
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "Invalid value for n")
			return
		}
		n = parsed
	}

	exchanges := h.session.GetHistory(ctx, n)
	if exchanges == nil {
		exchanges = []memory.Exchange{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Exchanges: exchanges, Count: len(exchanges)})
}

// clearHistory resets the conversation memory.
func (h *HistoryHandler) clearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	removed := h.session.ClearHistory(ctx)
	writeJSON(w, http.StatusOK, ClearHistoryResponse{Removed: removed})
}
