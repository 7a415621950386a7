package indexer

import "fmt"

// Chunk represents a bounded slice of document text produced by the chunker.
type Chunk struct {
	Index       int    // Chunk index within the document (starts at 0)
	StartOffset int    // Rune offset of the chunk start
	EndOffset   int    // Rune offset one past the chunk end
	Text        string // Chunk text content
}

// Chunker splits document text into overlapping fixed-size segments.
// Sizes are measured in runes so multibyte text chunks consistently.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a chunker. overlap must be smaller than chunkSize so
// the window always advances.
func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be greater than 0")
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must be in [0, chunk size)")
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split splits text into chunks of at most chunkSize runes, each
// consecutive pair sharing exactly overlap runes. Trailing content shorter
// than chunkSize is kept as the final chunk. Identical input always yields
// an identical chunk sequence. Empty input yields no chunks.
func (c *Chunker) Split(text string) []Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.chunkSize - c.overlap

	var chunks []Chunk
	for start := 0; ; start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, Chunk{
			Index:       len(chunks),
			StartOffset: start,
			EndOffset:   end,
			Text:        string(runes[start:end]),
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}
