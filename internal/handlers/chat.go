package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"knowledge-rag/internal/contextutil"
	"knowledge-rag/internal/rag"
	"knowledge-rag/internal/service"
)

// ChatHandler handles conversational queries that read and update the
// session's conversation memory.
type ChatHandler struct {
	session service.SessionService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(session service.SessionService) *ChatHandler {
	return &ChatHandler{session: session}
}

// ChatRequest represents the HTTP request payload for a chat turn.
type ChatRequest struct {
	Question string `json:"question"`
	Model    string `json:"model,omitempty"`
}

// ServeHTTP handles HTTP requests for conversational queries.
// With ?stream=true the answer is delivered as Server-Sent Events.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ragReq := rag.QueryRequest{Question: req.Question, Model: req.Model}

	if r.URL.Query().Get("stream") == "true" {
		h.streamChat(w, r, ragReq)
		return
	}

	resp, err := h.session.QueryWithHistory(ctx, ragReq)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process chat request")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// streamChat streams answer fragments as Server-Sent Events and closes
// with a [DONE] event.
func (h *ChatHandler) streamChat(w http.ResponseWriter, r *http.Request, req rag.QueryRequest) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	_, err := h.session.QueryWithHistoryStream(ctx, req, func(chunk string) error {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", chunk); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "error streaming chat", "error", err)
		_, _ = fmt.Fprintf(w, "data: {\"error\":%q}\n\n", err.Error())
		flusher.Flush()
		return
	}

	_, _ = fmt.Fprintf(w, "data: [DONE]\n\n")
	flusher.Flush()
}
