package sources

import "sync"

// Token identifies one fetch request.
type Token uint64

// Tracker hands out increasing tokens and accepts only the newest one, so a
// fetch that resolves after a newer fetch started is discarded regardless of
// arrival order. After Close nothing is accepted.
type Tracker struct {
	mu     sync.Mutex
	latest Token
	closed bool
}

// NewTracker returns an open tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin issues the token for a new request, superseding earlier ones.
func (t *Tracker) Begin() Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest++
	return t.latest
}

// Accept reports whether the result of token may still be applied.
func (t *Tracker) Accept(token Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed && token == t.latest
}

// Close rejects every outstanding and future token.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
}

// Closed reports whether Close was called.
func (t *Tracker) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
