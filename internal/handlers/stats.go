package handlers

import (
	"net/http"

	"knowledge-rag/internal/contextutil"
	"knowledge-rag/internal/service"
)

// StatsHandler reports corpus size.
type StatsHandler struct {
	session service.SessionService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(session service.SessionService) *StatsHandler {
	return &StatsHandler{session: session}
}

// ServeHTTP handles HTTP requests for index statistics.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := h.session.GetStats(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to read stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
