package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DocumentsDir string
	DBPath       string

	OllamaURL      string
	GenerateModel  string
	EmbeddingModel string

	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	ChunkSize       int
	ChunkOverlap    int
	TopK            int
	UpsertBatchSize int

	HistoryMax    int
	HistoryWindow int

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent directory, it is
// loaded automatically; environment variables already set take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up to find a .env at the project root
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		DocumentsDir: getEnv("DOCUMENTS_DIR", "./documents"),
		DBPath:       getEnv("DB_PATH", "./data/knowledge-rag.db"),

		OllamaURL:      getEnv("OLLAMA_URL", "http://localhost:11434"),
		GenerateModel:  getEnv("GENERATE_MODEL", "llama3.1:8b"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "nomic-embed-text"),

		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "knowledge_base"),

		APIPort:   getEnv("API_PORT", "9000"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	// QDRANT_VECTOR_SIZE must match the output size of the embedding model
	// (768 for nomic-embed-text). If it changes, the collection must be
	// recreated.
	vectorSize, err := getEnvInt("QDRANT_VECTOR_SIZE", 768)
	if err != nil {
		return nil, err
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 200); err != nil {
		return nil, err
	}
	if cfg.TopK, err = getEnvInt("TOP_K", 5); err != nil {
		return nil, err
	}
	if cfg.UpsertBatchSize, err = getEnvInt("UPSERT_BATCH_SIZE", 256); err != nil {
		return nil, err
	}
	if cfg.HistoryMax, err = getEnvInt("HISTORY_MAX", 50); err != nil {
		return nil, err
	}
	if cfg.HistoryWindow, err = getEnvInt("HISTORY_WINDOW", 5); err != nil {
		return nil, err
	}

	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE)")
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("TOP_K must be greater than 0")
	}
	if cfg.UpsertBatchSize <= 0 {
		return nil, fmt.Errorf("UPSERT_BATCH_SIZE must be greater than 0")
	}
	if cfg.HistoryMax <= 0 {
		return nil, fmt.Errorf("HISTORY_MAX must be greater than 0")
	}
	if cfg.HistoryWindow <= 0 {
		return nil, fmt.Errorf("HISTORY_WINDOW must be greater than 0")
	}

	cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	// Create the data directory for the SQLite file if needed
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

// parseLogLevel converts a level name to a slog.Level.
func parseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL: %q", name)
	}
}
