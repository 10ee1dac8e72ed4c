// Package vectorstore holds catalog vectors for nearest-neighbour lookup.
package vectorstore

import (
	"sort"

	"artistify/internal/domain"
)

// Storage persists catalog vectors and supports similarity search.
// Search returns results nearest first; equal scores are ordered by catalog row.
type Storage interface {
	Init(dimension int) error
	Upsert(entries []domain.CatalogEntry) error
	Search(vector []float64, topK int) ([]domain.SearchResult, error)
	Clear() error
}

// Rank sorts results by descending score, breaking ties by ascending row.
func Rank(results []domain.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.Row < results[j].Entry.Row
	})
}

// Rescore replaces candidate scores with exact cosine similarity to query
// and ranks them.
func Rescore(query []float64, results []domain.SearchResult) {
	for i := range results {
		results[i].Score = domain.CosineSimilarity(query, results[i].Entry.Vector)
	}
	Rank(results)
}
