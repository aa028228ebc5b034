package history

import (
	"sync"

	"procqa/internal/domain"
)

// Log is an in-memory conversation transcript shared by the query service
// and the exporter. Turns are kept in insertion order for the lifetime of
// the session; nothing is persisted.
type Log struct {
	mu    sync.Mutex
	turns []domain.Turn
}

func New() *Log {
	return &Log{}
}

// Append records one utterance at the end of the transcript.
func (l *Log) Append(role, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, domain.Turn{Role: role, Content: content})
}

// Turns returns a copy of the full transcript, oldest first.
func (l *Log) Turns() []domain.Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Window returns a copy of up to the last n turns, oldest first.
func (l *Log) Window(n int) []domain.Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || len(l.turns) == 0 {
		return nil
	}
	start := len(l.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]domain.Turn, len(l.turns)-start)
	copy(out, l.turns[start:])
	return out
}

// Len reports the number of recorded turns.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

// Reset discards the transcript.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = nil
}
