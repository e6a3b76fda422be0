// Package corpus loads the food knowledge base from heterogeneous CSV
// sources into one canonical in-memory document set.
package corpus

import (
	"sync"

	"github.com/poshan-labs/poshan/internal/domain"
)

// Corpus holds the immutable document set. Replace swaps it wholesale;
// readers always see a consistent snapshot.
type Corpus struct {
	mu   sync.RWMutex
	docs []*domain.Document
}

// New creates an empty corpus.
func New() *Corpus {
	return &Corpus{}
}

// Replace swaps in a new document set.
func (c *Corpus) Replace(docs []*domain.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = docs
}

// Docs returns the current document set. Callers must not mutate it.
func (c *Corpus) Docs() []*domain.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.docs
}

// Len returns the number of loaded documents.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Loaded reports whether any documents are available.
func (c *Corpus) Loaded() bool {
	return c.Len() > 0
}
