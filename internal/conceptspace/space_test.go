package conceptspace

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"artistify/internal/domain"
)

type lowerNormalizer struct{}

func (lowerNormalizer) Normalize(text string) string {
	f := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	var kept []string
	for _, w := range f {
		if w != "the" && w != "a" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

type dotSplitter struct{}

func (dotSplitter) Split(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ".") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func testCorpus(t *testing.T) *Corpus {
	t.Helper()
	c, err := NewCorpus([]Topic{
		{Name: "Music", Text: "guitar song melody"},
		{Name: "Sport", Text: "football goal match"},
		{Name: "Law", Text: "court judge trial"},
	}, "")
	if err != nil {
		t.Fatalf("NewCorpus: %v", err)
	}
	return c
}

func newSpace(t *testing.T, c *Corpus, p Policy) *Space {
	t.Helper()
	s, err := New(c, lowerNormalizer{}, dotSplitter{}, Options{Policy: p})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestVectorize(t *testing.T) {
	for _, p := range []Policy{PerCall, Snapshot} {
		t.Run(string(p), func(t *testing.T) {
			s := newSpace(t, testCorpus(t), p)
			v, err := s.Vectorize(context.Background(), "The guitar song played. A judge listened")
			if err != nil {
				t.Fatalf("Vectorize: %v", err)
			}
			if len(v) != s.Dimension() || len(v) != 3 {
				t.Fatalf("len = %d, want 3", len(v))
			}
			for i, x := range v {
				if x < 0 || x > 1+1e-9 {
					t.Fatalf("coordinate %d = %v out of [0,1]", i, x)
				}
			}
			if !(v[0] > v[1] && v[2] > v[1]) {
				t.Fatalf("unexpected vector %v", v)
			}
			if v[1] != 0 {
				t.Fatalf("unrelated topic should score 0, got %v", v[1])
			}
		})
	}
}

func TestVectorizeSentencesRows(t *testing.T) {
	s := newSpace(t, testCorpus(t), PerCall)
	rows, err := s.VectorizeSentences(context.Background(), "guitar melody. football match. court")
	if err != nil {
		t.Fatalf("VectorizeSentences: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, row := range rows {
		best := 0
		for j := range row {
			if row[j] > row[best] {
				best = j
			}
		}
		if best != i {
			t.Fatalf("sentence %d nearest topic %d, row %v", i, best, row)
		}
	}
	mean, err := s.Vectorize(context.Background(), "guitar melody. football match. court")
	if err != nil {
		t.Fatalf("Vectorize: %v", err)
	}
	for j := range mean {
		want := (rows[0][j] + rows[1][j] + rows[2][j]) / 3
		if math.Abs(mean[j]-want) > 1e-12 {
			t.Fatalf("mean[%d] = %v, want %v", j, mean[j], want)
		}
	}
}

func TestVectorizeErrors(t *testing.T) {
	empty, err := NewCorpus(nil, "")
	if err != nil {
		t.Fatalf("NewCorpus: %v", err)
	}
	tests := []struct {
		name  string
		space *Space
		text  string
		want  error
	}{
		{"empty corpus", newSpace(t, empty, PerCall), "guitar", domain.ErrEmptyCorpus},
		{"empty text", newSpace(t, testCorpus(t), PerCall), "  ", domain.ErrEmptyInput},
		{"only stopwords", newSpace(t, testCorpus(t), PerCall), "the. a", domain.ErrEmptyInput},
		{"snapshot empty text", newSpace(t, testCorpus(t), Snapshot), "", domain.ErrEmptyInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := tc.space.Vectorize(context.Background(), tc.text)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if v != nil {
				t.Fatalf("expected no vector, got %v", v)
			}
		})
	}
}

func TestVectorizeUnknownVocabulary(t *testing.T) {
	for _, p := range []Policy{PerCall, Snapshot} {
		s := newSpace(t, testCorpus(t), p)
		v, err := s.Vectorize(context.Background(), "zebra xylophone")
		if err != nil {
			t.Fatalf("%s: Vectorize: %v", p, err)
		}
		if len(v) != 3 {
			t.Fatalf("%s: len = %d", p, len(v))
		}
		for _, x := range v {
			if x != 0 {
				t.Fatalf("%s: expected zero similarity, got %v", p, v)
			}
		}
	}
}

func TestVectorizeCancelled(t *testing.T) {
	s := newSpace(t, testCorpus(t), PerCall)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Vectorize(ctx, "guitar song"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": PerCall, "per_call": PerCall, "Snapshot": Snapshot} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParsePolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePolicy("weekly"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestSharedTermsKeepWeight(t *testing.T) {
	single, err := NewCorpus([]Topic{{Name: "Ocean", Text: "ocean wave"}}, "")
	if err != nil {
		t.Fatal(err)
	}
	pair, err := NewCorpus([]Topic{{Name: "Ocean", Text: "ocean wave"}, {Name: "Sea", Text: "ocean tide"}}, "")
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []Policy{PerCall, Snapshot} {
		t.Run(string(p), func(t *testing.T) {
			v, err := newSpace(t, single, p).Vectorize(context.Background(), "ocean wave.")
			if err != nil {
				t.Fatalf("Vectorize: %v", err)
			}
			if math.Abs(v[0]-1) > 1e-9 {
				t.Fatalf("identical text similarity = %v, want 1", v[0])
			}
			v, err = newSpace(t, pair, p).Vectorize(context.Background(), "ocean.")
			if err != nil {
				t.Fatalf("Vectorize: %v", err)
			}
			if v[0] <= 0 || v[1] <= 0 {
				t.Fatalf("term shared by every document zeroed the vector: %v", v)
			}
		})
	}
}

func TestSmoothIDFWeights(t *testing.T) {
	counts := mat.NewDense(2, 2, []float64{
		1, 1, // in both documents
		2, 0, // in one
	})
	out, err := newSmoothIDF().FitTransform(counts)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	if got := out.At(0, 1); math.Abs(got-1) > 1e-12 {
		t.Fatalf("shared term weight = %v, want 1", got)
	}
	if want := 2 * (math.Log(1.5) + 1); math.Abs(out.At(1, 0)-want) > 1e-12 {
		t.Fatalf("weighted count = %v, want %v", out.At(1, 0), want)
	}
	if _, err := newSmoothIDF().Fit(counts).Transform(mat.NewDense(3, 1, nil)); err == nil {
		t.Fatal("expected term count mismatch")
	}
}
