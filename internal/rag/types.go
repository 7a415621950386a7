package rag

// QueryRequest represents a RAG query.
type QueryRequest struct {
	// Question is the user's question to answer.
	Question string `json:"question"`
	// Model optionally overrides the configured generation model.
	// It is passed through to the generator opaquely.
	Model string `json:"model,omitempty"`
	// K optionally overrides the configured retrieval depth.
	K int `json:"k,omitempty"`
}

// Source references a chunk that grounded an answer.
type Source struct {
	// Path is the document path relative to the documents root.
	Path string `json:"path"`
	// ChunkIndex is the chunk index within the document.
	ChunkIndex int `json:"chunk_index"`
	// Score is the similarity score of the retrieved chunk.
	Score float32 `json:"score"`
}

// QueryResponse represents the response to a RAG query.
type QueryResponse struct {
	// Answer is the generated answer.
	Answer string `json:"answer"`
	// Sources are the chunks used to ground the answer.
	Sources []Source `json:"sources"`
}

// ScoredChunk is a retrieved chunk with its similarity score.
type ScoredChunk struct {
	ChunkID    string
	Path       string
	ChunkIndex int
	Text       string
	Score      float32
}
