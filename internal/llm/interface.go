package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks knowledge-rag/internal/llm Embedder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks knowledge-rag/internal/llm Generator

import (
	"context"
	"errors"
)

var (
	// ErrModelUnavailable is returned when the requested model is not
	// loaded in the inference runtime.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInference is returned for all other generation failures.
	ErrInference = errors.New("inference error")
)

// Embedder maps text to fixed-length numeric vectors.
type Embedder interface {
	// EmbedText returns the embedding vector for a single text.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Generator is a language model that consumes an assembled prompt and
// returns free text. The model identifier is passed through opaquely;
// an empty model selects the configured default.
type Generator interface {
	// Generate produces an answer for the prompt, blocking until complete.
	Generate(ctx context.Context, prompt, model string) (string, error)
	// GenerateStream produces an answer incrementally, invoking the
	// callback for each text fragment.
	GenerateStream(ctx context.Context, prompt, model string, callback func(chunk string) error) error
}
