package storage

import "time"

// DocumentRecord represents an indexed source document in the database.
type DocumentRecord struct {
	ID        string    // UUID
	Path      string    // Relative path from the documents root
	DocType   string    // Detected type from the extension allow-list
	Hash      string    // SHA256 hex string of file content
	IndexedAt time.Time
}

// ChunkRecord represents a chunk of document text, indexed for vector search.
type ChunkRecord struct {
	ID          string // UUID (same as the Qdrant point ID)
	DocumentID  string // UUID (foreign key to documents.id)
	ChunkIndex  int    // Index within the document (starts at 0)
	StartOffset int    // Rune offset of the chunk start in the document text
	EndOffset   int    // Rune offset one past the chunk end
	Text        string // Chunk text content
}
