package rag

import (
	"context"
	"fmt"
	"strings"

	"knowledge-rag/internal/contextutil"
	"knowledge-rag/internal/llm"
	"knowledge-rag/internal/memory"
)

// Engine answers questions using retrieval-augmented generation.
type Engine struct {
	retriever *Retriever
	assembler *Assembler
	generator llm.Generator
	topK      int
}

// NewEngine creates a new RAG engine. topK is the default retrieval
// depth, overridable per request.
func NewEngine(retriever *Retriever, assembler *Assembler, generator llm.Generator, topK int) *Engine {
	if topK <= 0 {
		topK = 5
	}
	return &Engine{
		retriever: retriever,
		assembler: assembler,
		generator: generator,
		topK:      topK,
	}
}

// maxK bounds per-request retrieval depth.
const maxK = 20

// Query answers a single question without conversational context.
func (e *Engine) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	return e.query(ctx, req, nil)
}

// QueryWithMemory answers a question with the memory's recent window in
// the prompt. On success the new exchange is appended to the memory; a
// failed query leaves the memory untouched.
func (e *Engine) QueryWithMemory(ctx context.Context, req QueryRequest, mem *memory.ConversationMemory, window int) (QueryResponse, error) {
	resp, err := e.query(ctx, req, mem.RecentWindow(window))
	if err != nil {
		return QueryResponse{}, err
	}
	mem.Append(req.Question, resp.Answer)
	return resp, nil
}

// QueryWithMemoryStream is the streaming variant of QueryWithMemory.
// Fragments are forwarded to the callback as the generator emits them;
// the completed answer is appended to the memory only if the whole
// stream succeeds.
func (e *Engine) QueryWithMemoryStream(ctx context.Context, req QueryRequest, mem *memory.ConversationMemory, window int, callback func(chunk string) error) (QueryResponse, error) {
	prompt, sources, err := e.prepare(ctx, req, mem.RecentWindow(window))
	if err != nil {
		return QueryResponse{}, err
	}

	var answer strings.Builder
	err = e.generator.GenerateStream(ctx, prompt, req.Model, func(chunk string) error {
		answer.WriteString(chunk)
		return callback(chunk)
	})
	if err != nil {
		return QueryResponse{}, fmt.Errorf("generation failed: %w", err)
	}

	resp := QueryResponse{Answer: answer.String(), Sources: sources}
	mem.Append(req.Question, resp.Answer)
	return resp, nil
}

// query runs the full retrieval and generation flow for the given window.
func (e *Engine) query(ctx context.Context, req QueryRequest, window []memory.Exchange) (QueryResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	prompt, sources, err := e.prepare(ctx, req, window)
	if err != nil {
		return QueryResponse{}, err
	}

	answer, err := e.generator.Generate(ctx, prompt, req.Model)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("generation failed: %w", err)
	}

	logger.InfoContext(ctx, "query completed",
		"question_length", len(req.Question),
		"sources", len(sources),
		"answer_length", len(answer),
	)

	return QueryResponse{Answer: answer, Sources: sources}, nil
}

// prepare retrieves context and assembles the prompt for a request.
func (e *Engine) prepare(ctx context.Context, req QueryRequest, window []memory.Exchange) (string, []Source, error) {
	logger := contextutil.LoggerFromContext(ctx)

	k := req.K
	if k <= 0 {
		k = e.topK
	}
	if k > maxK {
		k = maxK
	}

	chunks, err := e.retriever.Retrieve(ctx, req.Question, k)
	if err != nil {
		return "", nil, fmt.Errorf("retrieval failed: %w", err)
	}

	if len(chunks) == 0 {
		logger.InfoContext(ctx, "no relevant context found", "question_length", len(req.Question))
	}

	prompt := e.assembler.Assemble(req.Question, chunks, window)

	sources := make([]Source, 0, len(chunks))
	for _, chunk := range chunks {
		sources = append(sources, Source{
			Path:       chunk.Path,
			ChunkIndex: chunk.ChunkIndex,
			Score:      chunk.Score,
		})
	}

	return prompt, sources, nil
}
