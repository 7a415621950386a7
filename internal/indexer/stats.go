package indexer

// IndexStats summarizes one indexing run. Non-fatal errors are collected
// here rather than aborting the run.
type IndexStats struct {
	// DocumentsScanned is the number of supported files found.
	DocumentsScanned int `json:"documents_scanned"`
	// DocumentsIndexed is the number of documents (re)indexed this run.
	DocumentsIndexed int `json:"documents_indexed"`
	// DocumentsSkipped is the number of unchanged documents skipped.
	DocumentsSkipped int `json:"documents_skipped"`
	// DocumentsPruned is the number of stored documents removed because
	// their source files no longer exist.
	DocumentsPruned int `json:"documents_pruned"`
	// ChunksAdded is the number of chunks embedded and stored.
	ChunksAdded int `json:"chunks_added"`
	// ChunksSkipped is the number of chunks dropped, e.g. after an
	// embedding failure.
	ChunksSkipped int `json:"chunks_skipped"`
	// Errors lists non-fatal problems encountered during the run.
	Errors []string `json:"errors,omitempty"`
}

// addError records a non-fatal error message.
func (s *IndexStats) addError(msg string) {
	s.Errors = append(s.Errors, msg)
}
