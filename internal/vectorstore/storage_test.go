package vectorstore

import (
	"testing"

	"artistify/internal/domain"
)

func TestRankBreaksTiesByRow(t *testing.T) {
	results := []domain.SearchResult{
		{Entry: domain.CatalogEntry{Row: 3}, Score: 0.5},
		{Entry: domain.CatalogEntry{Row: 1}, Score: 0.9},
		{Entry: domain.CatalogEntry{Row: 0}, Score: 0.5},
		{Entry: domain.CatalogEntry{Row: 2}, Score: 0.9},
	}
	Rank(results)
	want := []int{1, 2, 0, 3}
	for i, r := range results {
		if r.Entry.Row != want[i] {
			t.Fatalf("position %d row = %d, want %d", i, r.Entry.Row, want[i])
		}
	}
}

func TestRescore(t *testing.T) {
	results := []domain.SearchResult{
		{Entry: domain.CatalogEntry{Row: 0, Vector: []float64{0, 1}}, Score: 0.99},
		{Entry: domain.CatalogEntry{Row: 1, Vector: []float64{2, 0}}, Score: 0.1},
	}
	Rescore([]float64{1, 0}, results)
	if results[0].Entry.Row != 1 || results[0].Score != 1 || results[1].Score != 0 {
		t.Fatalf("unexpected ranking %+v", results)
	}
}
