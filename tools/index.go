package tools

import (
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/docindex/docindex-mcp/internal/searchindex"
)

// Index is the part of bleve.Index the tools read from. bleve.Index
// satisfies it directly; tests substitute mockIndex.
type Index interface {
	Search(req *bleve.SearchRequest) (*bleve.SearchResult, error)
	DocCount() (uint64, error)
	Close() error
}

// docSet is one generation of served documentation: the decoded artifact,
// its bleve index, and the fingerprint identifying the artifact contents.
// Its fields are never mutated after it is published.
type docSet struct {
	index       Index
	collection  *searchindex.Collection
	fingerprint string

	// Readers of this generation only. Once retired, no new reader may
	// enter and drained closes when the last one leaves.
	mu      sync.Mutex
	readers int
	retired bool
	drained chan struct{}
}

// enter registers a reader. It fails once the set has been retired.
func (s *docSet) enter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retired {
		return false
	}
	s.readers++
	return true
}

func (s *docSet) leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readers--
	if s.retired && s.readers == 0 {
		close(s.drained)
	}
}

// retire stops new readers and returns a channel closed once the current
// readers have left.
func (s *docSet) retire() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.retired {
		s.retired = true
		s.drained = make(chan struct{})
		if s.readers == 0 {
			close(s.drained)
		}
	}
	return s.drained
}
