package rag

import (
	"fmt"
	"strings"

	"knowledge-rag/internal/memory"
)

// NoContextMarker replaces the document-context section when retrieval
// returns nothing, so the generator cannot silently invent grounding.
const NoContextMarker = "No relevant context found in the knowledge base."

const instructions = "Based on the following context, answer the user's question. " +
	"Answer only using the provided document context. If the context does not " +
	"contain enough information to answer, say so."

// Assembler merges retrieved chunks and windowed conversation history
// into a single prompt.
type Assembler struct{}

// NewAssembler creates a new Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds the prompt in fixed order: grounding instructions,
// document context with source identifiers, then the conversation window
// followed by the new question. Document context precedes history so
// grounding outweighs prior chat turns; the question comes last so the
// model treats it as the active instruction.
func (a *Assembler) Assemble(question string, chunks []ScoredChunk, window []memory.Exchange) string {
	var b strings.Builder

	b.WriteString(instructions)
	b.WriteString("\n\nContext from documents:\n")

	if len(chunks) == 0 {
		b.WriteString(NoContextMarker)
		b.WriteString("\n")
	} else {
		for i, chunk := range chunks {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "Source: %s (chunk %d)\n", chunk.Path, chunk.ChunkIndex)
			b.WriteString(chunk.Text)
			b.WriteString("\n")
		}
	}

	if len(window) > 0 {
		b.WriteString("\nPrevious conversation:\n")
		for _, ex := range window {
			fmt.Fprintf(&b, "Human: %s\nAssistant: %s\n\n", ex.Question, ex.Answer)
		}
	}

	fmt.Fprintf(&b, "\nCurrent question: %s\n\nAnswer:", question)

	return b.String()
}
