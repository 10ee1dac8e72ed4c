package memory

import (
	"testing"

	"artistify/internal/domain"
)

func entries() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{Row: 0, Artist: "far", Vector: []float64{0, 1}},
		{Row: 1, Artist: "near", Vector: []float64{1, 0.1}},
		{Row: 2, Artist: "exact", Vector: []float64{3, 0}},
		{Row: 3, Artist: "exact twin", Vector: []float64{1, 0}},
	}
}

func TestSearch(t *testing.T) {
	s := NewStorage()
	if err := s.Init(2); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(entries()); err != nil {
		t.Fatal(err)
	}
	res, err := s.Search([]float64{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	got := []string{res[0].Entry.Artist, res[1].Entry.Artist, res[2].Entry.Artist}
	want := []string{"exact", "exact twin", "near"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	all, _ := s.Search([]float64{1, 0}, 10)
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
}

func TestErrors(t *testing.T) {
	s := NewStorage()
	if err := s.Init(0); err == nil {
		t.Fatal("expected invalid dimension")
	}
	_ = s.Init(3)
	if err := s.Upsert(entries()); err == nil {
		t.Fatal("expected dimension mismatch")
	}
	if _, err := s.Search([]float64{1}, 1); err == nil {
		t.Fatal("expected query dimension mismatch")
	}
	_ = s.Clear()
	res, err := s.Search([]float64{1, 0, 0}, 1)
	if err != nil || len(res) != 0 {
		t.Fatalf("after Clear: %v, %v", res, err)
	}
}
