package memory

import (
	"errors"
	"sync"

	"artistify/internal/domain"
	"artistify/internal/vectorstore"
)

// Storage is an exact in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	entries   []domain.CatalogEntry
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("memory: invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.entries = nil
	return nil
}

func (s *Storage) Upsert(entries []domain.CatalogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if len(e.Vector) != s.dimension {
			return errors.New("memory: vector dimension mismatch")
		}
	}
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *Storage) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(vector) != s.dimension {
		return nil, errors.New("memory: query dimension mismatch")
	}
	if topK <= 0 {
		topK = 5
	}
	results := make([]domain.SearchResult, len(s.entries))
	for i, e := range s.entries {
		results[i] = domain.SearchResult{Entry: e, Score: domain.CosineSimilarity(vector, e.Vector)}
	}
	vectorstore.Rank(results)
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
