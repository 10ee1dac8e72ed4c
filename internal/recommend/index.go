// Package recommend ranks artists by the similarity of their catalog vectors
// to a story vector.
package recommend

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"artistify/internal/domain"
	"artistify/internal/vectorstore"
)

// overFetch compensates for catalogs holding several rows per artist.
const overFetch = 3

// ArtistScore is a recommended artist with the similarity of its nearest row.
type ArtistScore struct {
	Artist string
	Score  float64
}

// Index implements domain.Recommender over a vector store.
type Index struct {
	store     vectorstore.Storage
	dimension int
	snapshot  string
	logger    *log.Logger
}

// NewIndex validates entries and loads them into store. snapshot is the
// corpus snapshot the catalog vectors were computed against, empty if unknown.
func NewIndex(store vectorstore.Storage, entries []domain.CatalogEntry, snapshot string, logger *log.Logger) (*Index, error) {
	const op = "recommend.NewIndex"
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if len(entries) == 0 {
		return nil, domain.Errorf(domain.KindEmptyCatalog, op, "no entries")
	}
	dim := len(entries[0].Vector)
	if dim == 0 {
		return nil, domain.Errorf(domain.KindEmptyCatalog, op, "row %d has an empty vector", entries[0].Row)
	}
	for _, e := range entries[1:] {
		if len(e.Vector) != dim {
			return nil, domain.Errorf(domain.KindEmptyCatalog, op, "row %d has dimension %d, want %d", e.Row, len(e.Vector), dim)
		}
	}
	// stores key nodes by row
	rows := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := rows[e.Row]; dup {
			return nil, domain.Errorf(domain.KindInvalidArgument, op, "duplicate row %d", e.Row)
		}
		rows[e.Row] = struct{}{}
	}
	if err := store.Init(dim); err != nil {
		return nil, fmt.Errorf("recommend: init store: %w", err)
	}
	if err := store.Upsert(entries); err != nil {
		return nil, fmt.Errorf("recommend: load store: %w", err)
	}
	if snapshot == "" {
		logger.Warn("catalog has no corpus snapshot; story comparability is not checked")
	}
	logger.Debug("recommendation index ready", "entries", len(entries), "dimension", dim, "snapshot", snapshot)
	return &Index{store: store, dimension: dim, snapshot: snapshot, logger: logger}, nil
}

// Dimension returns the catalog vector dimension.
func (x *Index) Dimension() int { return x.dimension }

// Snapshot returns the catalog's corpus snapshot, empty if unknown.
func (x *Index) Snapshot() string { return x.snapshot }

// Recommend returns up to k unique artist names, nearest first.
func (x *Index) Recommend(query domain.ConceptVector, k int) ([]string, error) {
	scored, err := x.RecommendScored(query, k)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(scored))
	for i, s := range scored {
		names[i] = s.Artist
	}
	return names, nil
}

// RecommendScored is Recommend with the score of each artist's nearest row.
func (x *Index) RecommendScored(query domain.ConceptVector, k int) ([]ArtistScore, error) {
	const op = "recommend.Recommend"
	if k < 1 {
		return nil, domain.Errorf(domain.KindInvalidArgument, op, "k = %d", k)
	}
	if len(query) != x.dimension {
		return nil, domain.Errorf(domain.KindDimensionMismatch, op, "query has dimension %d, catalog %d", len(query), x.dimension)
	}
	results, err := x.store.Search(query, k*overFetch)
	if err != nil {
		return nil, fmt.Errorf("recommend: search: %w", err)
	}
	seen := make(map[string]struct{}, k)
	out := make([]ArtistScore, 0, k)
	for _, r := range results {
		if _, ok := seen[r.Entry.Artist]; ok {
			continue
		}
		seen[r.Entry.Artist] = struct{}{}
		out = append(out, ArtistScore{Artist: r.Entry.Artist, Score: r.Score})
		if len(out) == k {
			break
		}
	}
	return out, nil
}
