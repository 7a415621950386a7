package indexer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	"knowledge-rag/internal/documents"
	llmmocks "knowledge-rag/internal/llm/mocks"
	"knowledge-rag/internal/storage"
	storagemocks "knowledge-rag/internal/storage/mocks"
	"knowledge-rag/internal/vectorstore"
	vsmocks "knowledge-rag/internal/vectorstore/mocks"
)

const pipelineCollection = "test_collection"

type pipelineMocks struct {
	documentRepo *storagemocks.MockDocumentStore
	chunkRepo    *storagemocks.MockChunkStore
	embedder     *llmmocks.MockEmbedder
	vectorStore  *vsmocks.MockVectorStore
}

func newTestPipeline(t *testing.T, ctrl *gomock.Controller, dir string, chunkSize, overlap, batchSize int) (*Pipeline, *pipelineMocks) {
	t.Helper()

	scanner, err := documents.NewScanner(dir)
	if err != nil {
		t.Fatalf("NewScanner() unexpected error: %v", err)
	}
	chunker, err := NewChunker(chunkSize, overlap)
	if err != nil {
		t.Fatalf("NewChunker() unexpected error: %v", err)
	}

	m := &pipelineMocks{
		documentRepo: storagemocks.NewMockDocumentStore(ctrl),
		chunkRepo:    storagemocks.NewMockChunkStore(ctrl),
		embedder:     llmmocks.NewMockEmbedder(ctrl),
		vectorStore:  vsmocks.NewMockVectorStore(ctrl),
	}
	p := NewPipeline(scanner, m.documentRepo, m.chunkRepo, m.embedder, m.vectorStore, pipelineCollection, chunker, batchSize)
	return p, m
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestPipeline_IndexAll_NewDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello world")

	p, m := newTestPipeline(t, ctrl, dir, 1000, 200, 256)

	m.documentRepo.EXPECT().GetByPath(gomock.Any(), "a.txt").Return(nil, storage.ErrNotFound)
	m.embedder.EXPECT().EmbedText(gomock.Any(), "hello world").Return([]float32{0.1, 0.2}, nil)
	m.vectorStore.EXPECT().Upsert(gomock.Any(), pipelineCollection, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, points []vectorstore.Point) error {
			if len(points) != 1 {
				t.Errorf("Upsert() got %d points, want 1", len(points))
			}
			if points[0].Meta["path"] != "a.txt" || points[0].Meta["text"] != "hello world" {
				t.Errorf("point metadata = %+v", points[0].Meta)
			}
			return nil
		})
	m.documentRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc *storage.DocumentRecord) error {
			wantHash := fmt.Sprintf("%x", sha256.Sum256([]byte("hello world")))
			if doc.Path != "a.txt" || doc.DocType != "text" || doc.Hash != wantHash {
				t.Errorf("document record = %+v", doc)
			}
			return nil
		})
	m.chunkRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	m.documentRepo.EXPECT().ListPaths(gomock.Any()).Return(map[string]string{}, nil)

	stats, err := p.IndexAll(context.Background())
	if err != nil {
		t.Fatalf("IndexAll() unexpected error: %v", err)
	}

	if stats.DocumentsScanned != 1 || stats.DocumentsIndexed != 1 || stats.ChunksAdded != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.Errors) != 0 {
		t.Errorf("stats.Errors = %v, want none", stats.Errors)
	}
}

func TestPipeline_IndexAll_SkipsUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "stable content")

	p, m := newTestPipeline(t, ctrl, dir, 1000, 200, 256)

	hash := fmt.Sprintf("%x", sha256.Sum256([]byte("stable content")))
	m.documentRepo.EXPECT().GetByPath(gomock.Any(), "a.txt").
		Return(&storage.DocumentRecord{ID: "doc1", Path: "a.txt", Hash: hash}, nil)
	m.documentRepo.EXPECT().ListPaths(gomock.Any()).Return(map[string]string{"doc1": "a.txt"}, nil)

	stats, err := p.IndexAll(context.Background())
	if err != nil {
		t.Fatalf("IndexAll() unexpected error: %v", err)
	}

	if stats.DocumentsSkipped != 1 || stats.DocumentsIndexed != 0 || stats.ChunksAdded != 0 {
		t.Errorf("stats = %+v, want one skipped and nothing indexed", stats)
	}
}

func TestPipeline_IndexAll_ReplacesChangedDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "new content")

	p, m := newTestPipeline(t, ctrl, dir, 1000, 200, 256)

	m.documentRepo.EXPECT().GetByPath(gomock.Any(), "a.txt").
		Return(&storage.DocumentRecord{ID: "doc1", Path: "a.txt", Hash: "stale-hash"}, nil)
	m.embedder.EXPECT().EmbedText(gomock.Any(), "new content").Return([]float32{0.5}, nil)

	gomock.InOrder(
		m.vectorStore.EXPECT().Upsert(gomock.Any(), pipelineCollection, gomock.Any()).Return(nil),
		m.chunkRepo.EXPECT().ListIDsByDocument(gomock.Any(), "doc1").Return([]string{"old-chunk"}, nil),
		m.vectorStore.EXPECT().Delete(gomock.Any(), pipelineCollection, []string{"old-chunk"}).Return(nil),
		m.chunkRepo.EXPECT().DeleteByDocument(gomock.Any(), "doc1").Return(nil),
	)

	m.documentRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc *storage.DocumentRecord) error {
			if doc.ID != "doc1" {
				t.Errorf("document ID = %q, want the existing ID preserved", doc.ID)
			}
			return nil
		})
	m.chunkRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	m.documentRepo.EXPECT().ListPaths(gomock.Any()).Return(map[string]string{"doc1": "a.txt"}, nil)

	stats, err := p.IndexAll(context.Background())
	if err != nil {
		t.Fatalf("IndexAll() unexpected error: %v", err)
	}
	if stats.DocumentsIndexed != 1 {
		t.Errorf("DocumentsIndexed = %d, want 1", stats.DocumentsIndexed)
	}
}

func TestPipeline_IndexAll_PrunesRemovedDocuments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()

	p, m := newTestPipeline(t, ctrl, dir, 1000, 200, 256)

	m.documentRepo.EXPECT().ListPaths(gomock.Any()).Return(map[string]string{"gone-id": "gone.txt"}, nil)
	m.chunkRepo.EXPECT().ListIDsByDocument(gomock.Any(), "gone-id").Return([]string{"c9"}, nil)
	m.vectorStore.EXPECT().Delete(gomock.Any(), pipelineCollection, []string{"c9"}).Return(nil)
	m.documentRepo.EXPECT().Delete(gomock.Any(), "gone-id").Return(nil)

	stats, err := p.IndexAll(context.Background())
	if err != nil {
		t.Fatalf("IndexAll() unexpected error: %v", err)
	}
	if stats.DocumentsPruned != 1 {
		t.Errorf("DocumentsPruned = %d, want 1", stats.DocumentsPruned)
	}
}

func TestPipeline_IndexAll_EmbeddingFailureSkipsChunk(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello world")

	// chunkSize 8, overlap 2 splits "hello world" into two chunks
	p, m := newTestPipeline(t, ctrl, dir, 8, 2, 256)

	m.documentRepo.EXPECT().GetByPath(gomock.Any(), "a.txt").Return(nil, storage.ErrNotFound)
	m.embedder.EXPECT().EmbedText(gomock.Any(), "hello wo").Return(nil, errors.New("provider timeout"))
	m.embedder.EXPECT().EmbedText(gomock.Any(), "world").Return([]float32{0.3}, nil)
	m.vectorStore.EXPECT().Upsert(gomock.Any(), pipelineCollection, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, points []vectorstore.Point) error {
			if len(points) != 1 {
				t.Errorf("Upsert() got %d points, want only the successful chunk", len(points))
			}
			return nil
		})
	m.documentRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	m.chunkRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	m.documentRepo.EXPECT().ListPaths(gomock.Any()).Return(map[string]string{}, nil)

	stats, err := p.IndexAll(context.Background())
	if err != nil {
		t.Fatalf("IndexAll() unexpected error: %v", err)
	}

	if stats.ChunksSkipped != 1 || stats.ChunksAdded != 1 || stats.DocumentsIndexed != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.Errors) != 1 {
		t.Errorf("stats.Errors = %v, want the skipped chunk recorded", stats.Errors)
	}
}

func TestPipeline_UpsertBatched_RespectsCap(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, m := newTestPipeline(t, ctrl, t.TempDir(), 1000, 200, 2)

	points := make([]vectorstore.Point, 5)
	for i := range points {
		points[i] = vectorstore.Point{ID: fmt.Sprintf("p%d", i)}
	}

	var batchSizes []int
	m.vectorStore.EXPECT().Upsert(gomock.Any(), pipelineCollection, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, batch []vectorstore.Point) error {
			batchSizes = append(batchSizes, len(batch))
			return nil
		}).Times(3)

	if err := p.upsertBatched(context.Background(), points); err != nil {
		t.Fatalf("upsertBatched() unexpected error: %v", err)
	}

	want := []int{2, 2, 1}
	for i, size := range batchSizes {
		if size != want[i] {
			t.Errorf("batch %d size = %d, want %d", i, size, want[i])
		}
	}
}

func TestPipeline_UpsertBatched_RetriesHalved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, m := newTestPipeline(t, ctrl, t.TempDir(), 1000, 200, 4)

	points := make([]vectorstore.Point, 4)
	for i := range points {
		points[i] = vectorstore.Point{ID: fmt.Sprintf("p%d", i)}
	}

	gomock.InOrder(
		m.vectorStore.EXPECT().Upsert(gomock.Any(), pipelineCollection, gomock.Len(4)).Return(errors.New("batch too large")),
		m.vectorStore.EXPECT().Upsert(gomock.Any(), pipelineCollection, gomock.Len(2)).Return(nil),
		m.vectorStore.EXPECT().Upsert(gomock.Any(), pipelineCollection, gomock.Len(2)).Return(nil),
	)

	if err := p.upsertBatched(context.Background(), points); err != nil {
		t.Fatalf("upsertBatched() should succeed after halved retry, got: %v", err)
	}
}

func TestPipeline_IndexAll_UpsertFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "content")

	p, m := newTestPipeline(t, ctrl, dir, 1000, 200, 1)

	m.documentRepo.EXPECT().GetByPath(gomock.Any(), "a.txt").Return(nil, storage.ErrNotFound)
	m.embedder.EXPECT().EmbedText(gomock.Any(), "content").Return([]float32{0.1}, nil)
	// Initial upsert and the single-point retry both fail
	m.vectorStore.EXPECT().Upsert(gomock.Any(), pipelineCollection, gomock.Any()).
		Return(errors.New("store down")).Times(2)
	m.vectorStore.EXPECT().Delete(gomock.Any(), pipelineCollection, gomock.Any()).Return(nil)
	m.documentRepo.EXPECT().ListPaths(gomock.Any()).Return(map[string]string{}, nil)

	stats, err := p.IndexAll(context.Background())
	if err != nil {
		t.Fatalf("IndexAll() should record per-file failures in stats, got: %v", err)
	}
	if stats.DocumentsIndexed != 0 {
		t.Errorf("DocumentsIndexed = %d, want 0", stats.DocumentsIndexed)
	}
	if len(stats.Errors) != 1 {
		t.Errorf("stats.Errors = %v, want one entry", stats.Errors)
	}
}
