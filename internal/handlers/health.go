package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"knowledge-rag/internal/contextutil"
)

// CollectionChecker reports whether a vector collection exists.
type CollectionChecker interface {
	CollectionExists(ctx context.Context, collection string) (bool, error)
}

// ModelLister lists the model names available in the LLM runtime.
type ModelLister interface {
	Models(ctx context.Context) ([]string, error)
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	vectorStore        CollectionChecker
	models             ModelLister
	collectionName     string
	generateModel      string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(vectorStore CollectionChecker, models ModelLister, collectionName, generateModel string) *HealthHandler {
	return &HealthHandler{
		vectorStore:        vectorStore,
		models:             models,
		collectionName:     collectionName,
		generateModel:      generateModel,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Issues    []string          `json:"issues,omitempty"`
}

// ServeHTTP checks the vector store collection and the configured
// generation model. Returns 200 when both pass, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.checkVectorStore(checkCtx, logger) {
		checks["vector_store"] = "ok"
	} else {
		checks["vector_store"] = "error"
		issues = append(issues, "vector_store_unavailable")
	}

	if h.checkModel(checkCtx, logger) {
		checks["llm"] = "ok"
	} else {
		checks["llm"] = "error"
		issues = append(issues, "generate_model_unavailable")
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}

// checkVectorStore checks that the collection backing retrieval exists.
func (h *HealthHandler) checkVectorStore(ctx context.Context, logger *slog.Logger) bool {
	exists, err := h.vectorStore.CollectionExists(ctx, h.collectionName)
	if err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		return false
	}
	if !exists {
		logger.WarnContext(ctx, "vector store collection does not exist", "collection", h.collectionName)
		return false
	}
	return true
}

// checkModel checks that the configured generation model is installed.
func (h *HealthHandler) checkModel(ctx context.Context, logger *slog.Logger) bool {
	names, err := h.models.Models(ctx)
	if err != nil {
		logger.WarnContext(ctx, "llm health check failed", "error", err)
		return false
	}
	for _, name := range names {
		if name == h.generateModel {
			return true
		}
	}
	logger.WarnContext(ctx, "generate model not installed", "model", h.generateModel)
	return false
}
