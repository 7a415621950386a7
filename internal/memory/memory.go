// Package memory implements the bounded, session-scoped conversation log.
package memory

import "time"

// Exchange is one question/answer pair in conversation history.
type Exchange struct {
	// Seq is the monotonic sequence number, starting at 1.
	Seq int `json:"seq"`
	// Question is the user's question.
	Question string `json:"question"`
	// Answer is the generated answer.
	Answer string `json:"answer"`
	// At is when the exchange completed.
	At time.Time `json:"at"`
}

// ConversationMemory is an ordered log of exchanges bounded to a maximum
// retained count. Eviction is strictly FIFO: once the bound is exceeded
// the oldest exchanges are dropped first. Memory is session-scoped and
// must be constructor-injected into the owning session, never shared as
// ambient global state.
//
// ConversationMemory is not safe for concurrent use; the owning session
// serializes access.
type ConversationMemory struct {
	maxRetained int
	nextSeq     int
	exchanges   []Exchange
}

// DefaultMaxRetained is the default retention bound.
const DefaultMaxRetained = 50

// New creates an empty ConversationMemory retaining at most maxRetained
// exchanges. A non-positive bound falls back to DefaultMaxRetained.
func New(maxRetained int) *ConversationMemory {
	if maxRetained <= 0 {
		maxRetained = DefaultMaxRetained
	}
	return &ConversationMemory{
		maxRetained: maxRetained,
		nextSeq:     1,
	}
}

// Append adds a new exchange with the next sequence number, evicting the
// oldest exchanges once the retention bound is exceeded.
func (m *ConversationMemory) Append(question, answer string) Exchange {
	ex := Exchange{
		Seq:      m.nextSeq,
		Question: question,
		Answer:   answer,
		At:       time.Now().UTC(),
	}
	m.nextSeq++

	m.exchanges = append(m.exchanges, ex)
	if excess := len(m.exchanges) - m.maxRetained; excess > 0 {
		m.exchanges = append(m.exchanges[:0], m.exchanges[excess:]...)
	}

	return ex
}

// RecentWindow returns at most the last n exchanges in chronological
// order, oldest first, so the assembled prompt reads as a transcript.
func (m *ConversationMemory) RecentWindow(n int) []Exchange {
	if n <= 0 || len(m.exchanges) == 0 {
		return nil
	}
	if n > len(m.exchanges) {
		n = len(m.exchanges)
	}

	window := make([]Exchange, n)
	copy(window, m.exchanges[len(m.exchanges)-n:])
	return window
}

// Clear resets the memory to empty. Subsequent sequence numbers restart
// from the beginning.
func (m *ConversationMemory) Clear() {
	m.exchanges = nil
	m.nextSeq = 1
}

// Len returns the number of retained exchanges.
func (m *ConversationMemory) Len() int {
	return len(m.exchanges)
}
