package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_session_service.go -package=mocks -mock_names=SessionService=MockSessionService knowledge-rag/internal/service SessionService

import (
	"context"
	"fmt"
	"sync"

	"knowledge-rag/internal/contextutil"
	"knowledge-rag/internal/indexer"
	"knowledge-rag/internal/memory"
	"knowledge-rag/internal/rag"
	"knowledge-rag/internal/storage"
)

// Stats reports corpus size for the front-ends.
type Stats struct {
	DocumentCount int `json:"document_count"`
	ChunkCount    int `json:"chunk_count"`
}

// SessionService is the command surface consumed by front-ends. One
// instance owns one ConversationMemory; operations are processed
// strictly sequentially, so a retrieval never observes a partially
// rewritten corpus.
type SessionService interface {
	// Index scans the documents directory and refreshes the searchable
	// corpus. With force set, all existing records are cleared first.
	Index(ctx context.Context, force bool) (*indexer.IndexStats, error)
	// Query answers a question without touching conversation memory.
	Query(ctx context.Context, req rag.QueryRequest) (rag.QueryResponse, error)
	// QueryWithHistory answers a question with conversational context
	// and appends the completed exchange to memory.
	QueryWithHistory(ctx context.Context, req rag.QueryRequest) (rag.QueryResponse, error)
	// QueryWithHistoryStream is the streaming variant of QueryWithHistory.
	QueryWithHistoryStream(ctx context.Context, req rag.QueryRequest, callback func(chunk string) error) (rag.QueryResponse, error)
	// ClearHistory resets the conversation memory, returning the number
	// of exchanges removed.
	ClearHistory(ctx context.Context) int
	// GetHistory returns at most the last n exchanges, oldest first.
	GetHistory(ctx context.Context, n int) []memory.Exchange
	// GetStats reports document and chunk counts.
	GetStats(ctx context.Context) (Stats, error)
}

// sessionService implements SessionService.
type sessionService struct {
	mu            sync.Mutex
	pipeline      *indexer.Pipeline
	engine        *rag.Engine
	mem           *memory.ConversationMemory
	documentRepo  storage.DocumentStore
	chunkRepo     storage.ChunkStore
	historyWindow int
}

// NewSessionService creates a SessionService owning the given
// conversation memory. historyWindow is the number of recent exchanges
// included in prompts.
func NewSessionService(
	pipeline *indexer.Pipeline,
	engine *rag.Engine,
	mem *memory.ConversationMemory,
	documentRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	historyWindow int,
) SessionService {
	if historyWindow <= 0 {
		historyWindow = 5
	}
	return &sessionService{
		pipeline:      pipeline,
		engine:        engine,
		mem:           mem,
		documentRepo:  documentRepo,
		chunkRepo:     chunkRepo,
		historyWindow: historyWindow,
	}
}

// Index refreshes the corpus. The session mutex is held for the whole
// run so interleaved queries wait for a consistent index.
func (s *sessionService) Index(ctx context.Context, force bool) (*indexer.IndexStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := contextutil.LoggerFromContext(ctx)

	if force {
		logger.InfoContext(ctx, "clearing all indexed data before re-index")
		if err := s.pipeline.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear index: %w", err)
		}
	}

	stats, err := s.pipeline.IndexAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("indexing failed: %w", err)
	}
	return stats, nil
}

// Query answers a question without conversational context.
func (s *sessionService) Query(ctx context.Context, req rag.QueryRequest) (rag.QueryResponse, error) {
	if err := validateQuestion(ctx, req.Question); err != nil {
		return rag.QueryResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Query(ctx, req)
}

// QueryWithHistory answers a question with the recent window in the
// prompt and records the completed exchange. A failed query leaves the
// memory untouched.
func (s *sessionService) QueryWithHistory(ctx context.Context, req rag.QueryRequest) (rag.QueryResponse, error) {
	if err := validateQuestion(ctx, req.Question); err != nil {
		return rag.QueryResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.QueryWithMemory(ctx, req, s.mem, s.historyWindow)
}

// QueryWithHistoryStream streams the answer fragments to the callback.
func (s *sessionService) QueryWithHistoryStream(ctx context.Context, req rag.QueryRequest, callback func(chunk string) error) (rag.QueryResponse, error) {
	if err := validateQuestion(ctx, req.Question); err != nil {
		return rag.QueryResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.QueryWithMemoryStream(ctx, req, s.mem, s.historyWindow, callback)
}

// ClearHistory resets the conversation memory.
func (s *sessionService) ClearHistory(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.mem.Len()
	s.mem.Clear()
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "conversation history cleared", "removed", removed)
	return removed
}

// GetHistory returns at most the last n exchanges, oldest first.
func (s *sessionService) GetHistory(ctx context.Context, n int) []memory.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mem.RecentWindow(n)
}

// GetStats reports document and chunk counts from the metadata store.
func (s *sessionService) GetStats(ctx context.Context) (Stats, error) {
	documentCount, err := s.documentRepo.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count documents: %w", err)
	}
	chunkCount, err := s.chunkRepo.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count chunks: %w", err)
	}
	return Stats{DocumentCount: documentCount, ChunkCount: chunkCount}, nil
}

// validateQuestion rejects empty questions before any external call.
func validateQuestion(ctx context.Context, question string) error {
	if question == "" {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "empty question in query request")
		return &ValidationError{Field: "question", Message: "cannot be empty"}
	}
	return nil
}
