package handlers

import (
	"encoding/json"
	"net/http"

	"knowledge-rag/internal/contextutil"
	"knowledge-rag/internal/rag"
	"knowledge-rag/internal/service"
)

// QueryHandler handles single-shot question answering without
// conversational context.
type QueryHandler struct {
	session service.SessionService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(session service.SessionService) *QueryHandler {
	return &QueryHandler{session: session}
}

// QueryRequest represents the HTTP request payload for a query.
type QueryRequest struct {
	Question string `json:"question"`
	Model    string `json:"model,omitempty"`
	K        int    `json:"k,omitempty"`
}

// ServeHTTP handles HTTP requests for single queries.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.session.Query(ctx, rag.QueryRequest{
		Question: req.Question,
		Model:    req.Model,
		K:        req.K,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process query")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
