package recommend

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"artistify/internal/domain"
	"artistify/internal/vectorstore/hnsw"
	"artistify/internal/vectorstore/memory"
)

func catalog() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{Row: 0, Artist: "Artist A", Vector: []float64{1, 0, 0}},
		{Row: 1, Artist: "Artist A", Vector: []float64{0.95, 0.05, 0}},
		{Row: 2, Artist: "Artist B", Vector: []float64{0.8, 0.2, 0}},
		{Row: 3, Artist: "Artist A", Vector: []float64{0.9, 0.1, 0}},
		{Row: 4, Artist: "Artist B", Vector: []float64{0.1, 0.9, 0}},
	}
}

func TestRecommendTwoArtists(t *testing.T) {
	idx, err := NewIndex(memory.NewStorage(), catalog(), "", nil)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	got, err := idx.Recommend(domain.ConceptVector{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if want := []string{"Artist A", "Artist B"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Recommend = %v, want %v", got, want)
	}
	// fewer unique artists than k
	got, err = idx.Recommend(domain.ConceptVector{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recommend(k=5) = %v, want 2 artists", got)
	}
	got, _ = idx.Recommend(domain.ConceptVector{0, 1, 0}, 1)
	if !reflect.DeepEqual(got, []string{"Artist B"}) {
		t.Fatalf("Recommend = %v", got)
	}
}

func TestRecommendTieKeepsCatalogOrder(t *testing.T) {
	entries := []domain.CatalogEntry{
		{Row: 0, Artist: "First", Vector: []float64{1, 0}},
		{Row: 1, Artist: "Second", Vector: []float64{1, 0}},
		{Row: 2, Artist: "Third", Vector: []float64{2, 0}},
	}
	idx, err := NewIndex(memory.NewStorage(), entries, "snap", nil)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := idx.Recommend(domain.ConceptVector{1, 0}, 3)
	if want := []string{"First", "Second", "Third"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Recommend = %v, want %v", got, want)
	}
	scored, _ := idx.RecommendScored(domain.ConceptVector{1, 0}, 1)
	if len(scored) != 1 || scored[0].Score != 1 {
		t.Fatalf("RecommendScored = %v", scored)
	}
	if idx.Snapshot() != "snap" || idx.Dimension() != 2 {
		t.Fatalf("Snapshot/Dimension = %q/%d", idx.Snapshot(), idx.Dimension())
	}
}

func TestRecommendNoDuplicatesProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	names := []string{"a", "b", "c", "d", "e"}
	for iter := 0; iter < 50; iter++ {
		var entries []domain.CatalogEntry
		unique := map[string]bool{}
		rows := 1 + rng.Intn(20)
		for i := 0; i < rows; i++ {
			n := names[rng.Intn(len(names))]
			unique[n] = true
			entries = append(entries, domain.CatalogEntry{Row: i, Artist: n, Vector: []float64{rng.Float64(), rng.Float64(), rng.Float64()}})
		}
		idx, err := NewIndex(memory.NewStorage(), entries, "", nil)
		if err != nil {
			t.Fatal(err)
		}
		k := 1 + rng.Intn(6)
		got, err := idx.Recommend(domain.ConceptVector{rng.Float64(), rng.Float64(), rng.Float64()}, k)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) > k {
			t.Fatalf("got %d names for k=%d", len(got), k)
		}
		seen := map[string]bool{}
		for _, n := range got {
			if seen[n] {
				t.Fatalf("duplicate %q in %v", n, got)
			}
			seen[n] = true
		}
		// every row is retrieved when rows <= 3k
		if len(unique) <= k && rows <= 3*k && len(got) != len(unique) {
			t.Fatalf("got %v, want all %d artists", got, len(unique))
		}
	}
}

func TestRecommendWithHNSW(t *testing.T) {
	idx, err := NewIndex(hnsw.NewStorage(hnsw.Config{}), catalog(), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := idx.Recommend(domain.ConceptVector{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Artist A", "Artist B"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Recommend = %v, want %v", got, want)
	}
}

func TestIndexErrors(t *testing.T) {
	if _, err := NewIndex(memory.NewStorage(), nil, "", nil); !errors.Is(err, domain.ErrEmptyCatalog) {
		t.Fatalf("empty: err = %v", err)
	}
	ragged := []domain.CatalogEntry{{Artist: "a", Vector: []float64{1, 0}}, {Row: 1, Artist: "b", Vector: []float64{1}}}
	if _, err := NewIndex(memory.NewStorage(), ragged, "", nil); !errors.Is(err, domain.ErrEmptyCatalog) {
		t.Fatalf("ragged: err = %v", err)
	}
	dup := []domain.CatalogEntry{{Artist: "a", Vector: []float64{1, 0}}, {Artist: "b", Vector: []float64{0, 1}}}
	if _, err := NewIndex(memory.NewStorage(), dup, "", nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("duplicate rows: err = %v", err)
	}
	idx, _ := NewIndex(memory.NewStorage(), catalog(), "", nil)
	if _, err := idx.Recommend(domain.ConceptVector{1, 0}, 2); !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("dimension: err = %v", err)
	}
	if _, err := idx.Recommend(domain.ConceptVector{1, 0, 0}, 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("k: err = %v", err)
	}
}
