// Package hnsw is an approximate vector store backed by an in-process HNSW graph.
package hnsw

import (
	"errors"
	"sync"

	"github.com/coder/hnsw"

	"artistify/internal/domain"
	"artistify/internal/vectorstore"
)

// Config tunes the graph.
type Config struct {
	M        int // max neighbours per node
	EfSearch int // search quality parameter
}

// Storage keys graph nodes by catalog row. Candidates returned by the graph
// are re-ranked by exact cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	cfg       Config
	dimension int
	graph     *hnsw.Graph[int]
	entries   map[int]domain.CatalogEntry
}

func NewStorage(cfg Config) *Storage {
	if cfg.M <= 0 {
		cfg.M = 16
	}
	if cfg.EfSearch <= 0 {
		cfg.EfSearch = 32
	}
	return &Storage{cfg: cfg}
}

func (s *Storage) newGraph() *hnsw.Graph[int] {
	g := hnsw.NewGraph[int]()
	g.Distance = hnsw.CosineDistance
	g.M = s.cfg.M
	g.EfSearch = s.cfg.EfSearch
	return g
}

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("hnsw: invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.graph = s.newGraph()
	s.entries = make(map[int]domain.CatalogEntry)
	return nil
}

func (s *Storage) Upsert(entries []domain.CatalogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph == nil {
		return errors.New("hnsw: storage not initialized")
	}
	nodes := make([]hnsw.Node[int], 0, len(entries))
	for _, e := range entries {
		if len(e.Vector) != s.dimension {
			return errors.New("hnsw: vector dimension mismatch")
		}
		nodes = append(nodes, hnsw.MakeNode(e.Row, toFloat32(e.Vector)))
	}
	for _, e := range entries {
		s.entries[e.Row] = e
	}
	s.graph.Add(nodes...)
	return nil
}

func (s *Storage) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(vector) != s.dimension {
		return nil, errors.New("hnsw: query dimension mismatch")
	}
	if topK <= 0 {
		topK = 5
	}
	if s.graph == nil || s.graph.Len() == 0 {
		return nil, nil
	}
	// over-fetch so exact re-ranking can repair approximate ordering
	fetch := topK * 2
	if fetch < s.cfg.EfSearch {
		fetch = s.cfg.EfSearch
	}
	nodes := s.graph.Search(toFloat32(vector), fetch)
	results := make([]domain.SearchResult, 0, len(nodes))
	for _, n := range nodes {
		if e, ok := s.entries[n.Key]; ok {
			results = append(results, domain.SearchResult{Entry: e})
		}
	}
	vectorstore.Rescore(vector, results)
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = s.newGraph()
	s.entries = make(map[int]domain.CatalogEntry)
	return nil
}

// toFloat32 converts float64 vector to float32 (HNSW uses float32)
func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
