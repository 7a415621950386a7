package handlers

import (
	"net/http"

	"knowledge-rag/internal/contextutil"
	"knowledge-rag/internal/service"
)

// IndexHandler handles requests for (re-)indexing the documents directory.
type IndexHandler struct {
	session service.SessionService
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(session service.SessionService) *IndexHandler {
	return &IndexHandler{session: session}
}

// ServeHTTP triggers a synchronous indexing run and returns its stats.
// With ?force=true all existing records are cleared first; the documented
// recovery path for a corrupted index.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	force := r.URL.Query().Get("force") == "true"
	if force {
		logger.InfoContext(ctx, "force re-indexing triggered via API")
	} else {
		logger.InfoContext(ctx, "indexing triggered via API")
	}

	stats, err := h.session.Index(ctx, force)
	if err != nil {
		handleServiceError(ctx, w, err, "Indexing failed")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
