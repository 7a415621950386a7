package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"knowledge-rag/internal/config"
	"knowledge-rag/internal/documents"
	"knowledge-rag/internal/http"
	"knowledge-rag/internal/indexer"
	"knowledge-rag/internal/llm"
	"knowledge-rag/internal/memory"
	"knowledge-rag/internal/rag"
	"knowledge-rag/internal/service"
	"knowledge-rag/internal/storage"
	"knowledge-rag/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	documentRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	ctx := context.Background()

	// Documents directory scanner
	scanner, err := documents.NewScanner(cfg.DocumentsDir)
	if err != nil {
		log.Fatalf("Failed to initialize document scanner: %v", err)
	}
	slog.Info("Document scanner initialized", "dir", cfg.DocumentsDir)

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding model vector size (fail-fast)
	ollamaClient := llm.NewOllamaClient(cfg.OllamaURL, cfg.GenerateModel, cfg.EmbeddingModel, cfg.QdrantVectorSize)
	testEmbedding, err := ollamaClient.EmbedText(ctx, "test")
	if err != nil {
		log.Fatalf("Failed to validate embedding model: %v", err)
	}
	if len(testEmbedding) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbedding))
	}
	slog.Info("Embedding model validated", "model", cfg.EmbeddingModel, "vector_size", cfg.QdrantVectorSize)

	chunker, err := indexer.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Invalid chunking configuration: %v", err)
	}

	pipeline := indexer.NewPipeline(
		scanner,
		documentRepo,
		chunkRepo,
		ollamaClient,
		vectorStore,
		cfg.QdrantCollection,
		chunker,
		cfg.UpsertBatchSize,
	)

	retriever := rag.NewRetriever(ollamaClient, vectorStore, cfg.QdrantCollection, chunkRepo)
	engine := rag.NewEngine(retriever, rag.NewAssembler(), ollamaClient, cfg.TopK)
	slog.Info("RAG engine initialized", "top_k", cfg.TopK)

	mem := memory.New(cfg.HistoryMax)
	session := service.NewSessionService(pipeline, engine, mem, documentRepo, chunkRepo, cfg.HistoryWindow)

	deps := &http.Deps{
		Session:        session,
		VectorStore:    vectorStore,
		Models:         ollamaClient,
		CollectionName: cfg.QdrantCollection,
		GenerateModel:  cfg.GenerateModel,
	}
	router := http.NewRouter(deps)

	// Start indexing in background after router is ready
	go func() {
		indexCtx := context.Background()
		slog.Info("Starting background indexing of documents")
		stats, err := session.Index(indexCtx, false)
		if err != nil {
			slog.Error("Indexing completed with errors", "error", err)
			return
		}
		slog.Info("Indexing completed",
			"scanned", stats.DocumentsScanned,
			"indexed", stats.DocumentsIndexed,
			"skipped", stats.DocumentsSkipped,
			"pruned", stats.DocumentsPruned,
			"chunks_added", stats.ChunksAdded,
			"errors", len(stats.Errors),
		)
	}()

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.OllamaURL, "generate_model", cfg.GenerateModel)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
