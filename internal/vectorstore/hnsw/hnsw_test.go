package hnsw

import (
	"math/rand"
	"testing"

	"artistify/internal/domain"
)

func TestSearchFindsNearest(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewStorage(Config{})
	if err := s.Init(8); err != nil {
		t.Fatal(err)
	}
	var entries []domain.CatalogEntry
	for i := 0; i < 60; i++ {
		v := make([]float64, 8)
		for j := range v {
			v[j] = rng.Float64() + 0.01
		}
		entries = append(entries, domain.CatalogEntry{Row: i, Artist: "artist", Vector: v})
	}
	if err := s.Upsert(entries); err != nil {
		t.Fatal(err)
	}
	query := entries[17].Vector
	res, err := s.Search(query, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 5 {
		t.Fatalf("len = %d, want 5", len(res))
	}
	if res[0].Entry.Row != 17 {
		t.Fatalf("nearest row = %d, want 17", res[0].Entry.Row)
	}
	for i := 1; i < len(res); i++ {
		if res[i].Score > res[i-1].Score {
			t.Fatalf("results not ranked: %v", res)
		}
	}
}

func TestSearchEmptyAndErrors(t *testing.T) {
	s := NewStorage(Config{M: 8, EfSearch: 16})
	if err := s.Upsert([]domain.CatalogEntry{{Row: 0, Vector: []float64{1}}}); err == nil {
		t.Fatal("expected error before Init")
	}
	_ = s.Init(2)
	res, err := s.Search([]float64{1, 0}, 3)
	if err != nil || len(res) != 0 {
		t.Fatalf("empty search = %v, %v", res, err)
	}
	if err := s.Upsert([]domain.CatalogEntry{{Row: 0, Vector: []float64{1}}}); err == nil {
		t.Fatal("expected dimension mismatch")
	}
	if _, err := s.Search([]float64{1}, 1); err == nil {
		t.Fatal("expected query dimension mismatch")
	}
}
