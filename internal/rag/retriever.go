package rag

import (
	"fmt"

	"context"

	"knowledge-rag/internal/contextutil"
	"knowledge-rag/internal/llm"
	"knowledge-rag/internal/storage"
	"knowledge-rag/internal/vectorstore"
)

// Retriever produces the top-k most relevant chunks for a query.
type Retriever struct {
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	chunkRepo   storage.ChunkStore
}

// NewRetriever creates a new Retriever.
func NewRetriever(
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunkRepo storage.ChunkStore,
) *Retriever {
	return &Retriever{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		chunkRepo:   chunkRepo,
	}
}

// Retrieve embeds the query and returns at most k chunks ordered by
// descending similarity. An empty index yields an empty slice, not an
// error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]ScoredChunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	queryVector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := r.vectorStore.Search(ctx, r.collection, queryVector, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	chunks := make([]ScoredChunk, 0, len(results))
	for _, result := range results {
		path, _ := result.Meta["path"].(string)
		chunkIndex := metaInt(result.Meta["chunk_index"])

		// The chunk table is the source of truth for text; the payload
		// copy serves as a fallback if the row is missing.
		text := ""
		record, err := r.chunkRepo.GetByID(ctx, result.PointID)
		switch {
		case err == nil:
			text = record.Text
		case err == storage.ErrNotFound:
			text, _ = result.Meta["text"].(string)
			logger.WarnContext(ctx, "chunk row missing, using payload text", "chunk_id", result.PointID)
		default:
			logger.WarnContext(ctx, "failed to fetch chunk text", "chunk_id", result.PointID, "error", err)
			continue
		}

		if text == "" {
			continue
		}

		chunks = append(chunks, ScoredChunk{
			ChunkID:    result.PointID,
			Path:       path,
			ChunkIndex: chunkIndex,
			Text:       text,
			Score:      result.Score,
		})
	}

	logger.DebugContext(ctx, "retrieval completed", "k", k, "results", len(chunks))
	return chunks, nil
}

// metaInt converts a payload value to int across the numeric types the
// vector store may return.
func metaInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
