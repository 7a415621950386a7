package indexer

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/google/uuid"

	"knowledge-rag/internal/contextutil"
	"knowledge-rag/internal/documents"
	"knowledge-rag/internal/llm"
	"knowledge-rag/internal/storage"
	"knowledge-rag/internal/vectorstore"
)

// Pipeline orchestrates indexing of the documents directory into SQLite
// and the vector store.
type Pipeline struct {
	scanner         *documents.Scanner
	documentRepo    storage.DocumentStore
	chunkRepo       storage.ChunkStore
	embedder        llm.Embedder
	vectorStore     vectorstore.VectorStore
	collection      string
	chunker         *Chunker
	upsertBatchSize int
}

// NewPipeline creates a new indexing pipeline.
// upsertBatchSize caps the number of points per vector-store insert call;
// larger batches are split before upserting.
func NewPipeline(
	scanner *documents.Scanner,
	documentRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunker *Chunker,
	upsertBatchSize int,
) *Pipeline {
	if upsertBatchSize <= 0 {
		upsertBatchSize = 256
	}
	return &Pipeline{
		scanner:         scanner,
		documentRepo:    documentRepo,
		chunkRepo:       chunkRepo,
		embedder:        embedder,
		vectorStore:     vectorStore,
		collection:      collection,
		chunker:         chunker,
		upsertBatchSize: upsertBatchSize,
	}
}

// IndexAll scans the documents directory and indexes every new or changed
// file. Errors for individual files and chunks are recorded in the stats
// and do not stop the run. Documents whose source files have been removed
// are pruned from both stores.
func (p *Pipeline) IndexAll(ctx context.Context) (*IndexStats, error) {
	logger := contextutil.LoggerFromContext(ctx)
	stats := &IndexStats{}

	scannedFiles, err := p.scanner.Scan(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to scan documents directory: %w", err)
	}
	stats.DocumentsScanned = len(scannedFiles)

	logger.InfoContext(ctx, "starting indexing", "total_files", len(scannedFiles))

	for _, file := range scannedFiles {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		if err := p.indexDocument(ctx, file, stats); err != nil {
			stats.addError(fmt.Sprintf("%s: %v", file.RelPath, err))
			logger.ErrorContext(ctx, "failed to index file", "rel_path", file.RelPath, "error", err)
			continue
		}
	}

	if err := p.pruneMissing(ctx, scannedFiles, stats); err != nil {
		stats.addError(fmt.Sprintf("prune: %v", err))
		logger.ErrorContext(ctx, "failed to prune removed documents", "error", err)
	}

	logger.InfoContext(ctx, "indexing completed",
		"scanned", stats.DocumentsScanned,
		"indexed", stats.DocumentsIndexed,
		"skipped", stats.DocumentsSkipped,
		"pruned", stats.DocumentsPruned,
		"chunks_added", stats.ChunksAdded,
		"chunks_skipped", stats.ChunksSkipped,
		"errors", len(stats.Errors),
	)

	return stats, nil
}

// indexDocument indexes one file: hash comparison, chunking, embedding,
// and replacement of any prior records for the document.
func (p *Pipeline) indexDocument(ctx context.Context, file documents.ScannedFile, stats *IndexStats) error {
	logger := contextutil.LoggerFromContext(ctx)

	content, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	hash := sha256.Sum256(content)
	hashHex := fmt.Sprintf("%x", hash)

	existing, err := p.documentRepo.GetByPath(ctx, file.RelPath)
	if err != nil && err != storage.ErrNotFound {
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	// Skip re-indexing if the content hash matches
	if existing != nil && existing.Hash == hashHex {
		logger.DebugContext(ctx, "skipping unchanged file", "rel_path", file.RelPath, "hash", hashHex)
		stats.DocumentsSkipped++
		return nil
	}

	text := string(content)
	if file.DocType == "markdown" {
		text = documents.MarkdownToPlainText(content)
	}

	chunks := p.chunker.Split(text)

	// Embed chunk by chunk; a provider failure skips that chunk only
	chunkRecords := make([]*storage.ChunkRecord, 0, len(chunks))
	points := make([]vectorstore.Point, 0, len(chunks))
	docID := uuid.New().String()
	if existing != nil {
		docID = existing.ID
	}

	for _, chunk := range chunks {
		vec, err := p.embedder.EmbedText(ctx, chunk.Text)
		if err != nil {
			stats.ChunksSkipped++
			stats.addError(fmt.Sprintf("%s chunk %d: embedding failed: %v", file.RelPath, chunk.Index, err))
			logger.WarnContext(ctx, "embedding failed, skipping chunk",
				"rel_path", file.RelPath, "chunk_index", chunk.Index, "error", err)
			continue
		}

		chunkID := uuid.New().String()
		chunkRecords = append(chunkRecords, &storage.ChunkRecord{
			ID:          chunkID,
			DocumentID:  docID,
			ChunkIndex:  chunk.Index,
			StartOffset: chunk.StartOffset,
			EndOffset:   chunk.EndOffset,
			Text:        chunk.Text,
		})
		points = append(points, vectorstore.Point{
			ID:  chunkID,
			Vec: vec,
			Meta: map[string]any{
				"path":        file.RelPath,
				"doc_type":    file.DocType,
				"document_id": docID,
				"chunk_index": chunk.Index,
				"text":        chunk.Text,
			},
		})
	}

	// Write the new points before removing old ones, so a failed upsert
	// leaves the prior corpus intact.
	if err := p.upsertBatched(ctx, points); err != nil {
		// Best-effort removal of anything partially written
		newIDs := make([]string, len(points))
		for i, pt := range points {
			newIDs[i] = pt.ID
		}
		if delErr := p.vectorStore.Delete(ctx, p.collection, newIDs); delErr != nil {
			logger.WarnContext(ctx, "failed to roll back partial upsert", "rel_path", file.RelPath, "error", delErr)
		}
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}

	// Remove superseded records so the index never holds orphaned vectors
	if existing != nil {
		oldChunkIDs, err := p.chunkRepo.ListIDsByDocument(ctx, existing.ID)
		if err != nil {
			return fmt.Errorf("failed to list old chunk IDs: %w", err)
		}
		if len(oldChunkIDs) > 0 {
			if err := p.vectorStore.Delete(ctx, p.collection, oldChunkIDs); err != nil {
				logger.WarnContext(ctx, "failed to delete old chunks from vector store",
					"rel_path", file.RelPath, "count", len(oldChunkIDs), "error", err)
			}
			if err := p.chunkRepo.DeleteByDocument(ctx, existing.ID); err != nil {
				return fmt.Errorf("failed to delete old chunks: %w", err)
			}
		}
	}

	docRecord := &storage.DocumentRecord{
		ID:      docID,
		Path:    file.RelPath,
		DocType: file.DocType,
		Hash:    hashHex,
	}
	if err := p.documentRepo.Upsert(ctx, docRecord); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	for _, record := range chunkRecords {
		if err := p.chunkRepo.Insert(ctx, record); err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	stats.DocumentsIndexed++
	stats.ChunksAdded += len(chunkRecords)
	logger.InfoContext(ctx, "indexed document", "rel_path", file.RelPath, "chunks", len(chunkRecords))
	return nil
}

// upsertBatched splits points into sub-batches that respect the vector
// store's insert cap. A rejected batch is retried once with halved
// sub-batches before the error is surfaced.
func (p *Pipeline) upsertBatched(ctx context.Context, points []vectorstore.Point) error {
	for start := 0; start < len(points); start += p.upsertBatchSize {
		end := start + p.upsertBatchSize
		if end > len(points) {
			end = len(points)
		}
		batch := points[start:end]

		if err := p.vectorStore.Upsert(ctx, p.collection, batch); err != nil {
			if retryErr := p.upsertHalved(ctx, batch); retryErr != nil {
				return retryErr
			}
		}
	}
	return nil
}

// upsertHalved retries a rejected batch in halves.
func (p *Pipeline) upsertHalved(ctx context.Context, batch []vectorstore.Point) error {
	if len(batch) <= 1 {
		return p.vectorStore.Upsert(ctx, p.collection, batch)
	}

	mid := len(batch) / 2
	for _, half := range [][]vectorstore.Point{batch[:mid], batch[mid:]} {
		if err := p.vectorStore.Upsert(ctx, p.collection, half); err != nil {
			return fmt.Errorf("batched upsert failed after retry: %w", err)
		}
	}
	return nil
}

// pruneMissing removes stored documents whose source files were not seen
// in the current scan, along with their chunks and vectors.
func (p *Pipeline) pruneMissing(ctx context.Context, scanned []documents.ScannedFile, stats *IndexStats) error {
	logger := contextutil.LoggerFromContext(ctx)

	seen := make(map[string]bool, len(scanned))
	for _, f := range scanned {
		seen[f.RelPath] = true
	}

	stored, err := p.documentRepo.ListPaths(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stored documents: %w", err)
	}

	for id, path := range stored {
		if seen[path] {
			continue
		}

		chunkIDs, err := p.chunkRepo.ListIDsByDocument(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list chunks for %s: %w", path, err)
		}
		if len(chunkIDs) > 0 {
			if err := p.vectorStore.Delete(ctx, p.collection, chunkIDs); err != nil {
				logger.WarnContext(ctx, "failed to delete pruned chunks from vector store",
					"path", path, "count", len(chunkIDs), "error", err)
			}
		}
		if err := p.documentRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete document %s: %w", path, err)
		}

		stats.DocumentsPruned++
		logger.InfoContext(ctx, "pruned removed document", "path", path, "chunks", len(chunkIDs))
	}

	return nil
}

// ClearAll removes every stored document, chunk, and vector. Used by the
// force re-index path.
func (p *Pipeline) ClearAll(ctx context.Context) error {
	stored, err := p.documentRepo.ListPaths(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stored documents: %w", err)
	}

	for id, path := range stored {
		chunkIDs, err := p.chunkRepo.ListIDsByDocument(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list chunks for %s: %w", path, err)
		}
		if len(chunkIDs) > 0 {
			if err := p.vectorStore.Delete(ctx, p.collection, chunkIDs); err != nil {
				return fmt.Errorf("failed to delete vectors for %s: %w", path, err)
			}
		}
		if err := p.documentRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete document %s: %w", path, err)
		}
	}

	return nil
}
