package tfidf

import (
	"context"
	"errors"
	"math"
	"sort"
)

// Tokenizer yields the normalized tokens of a text.
type Tokenizer interface {
	Tokens(text string) []string
}

// Embedder is an offline sentence embedder. Each EmbedBatch call fits a
// fresh TF-IDF vocabulary over the batch, so the embedder itself holds no
// mutable state.
type Embedder struct {
	tokenizer Tokenizer
}

// NewEmbedder creates a TF-IDF embedder over the given tokenizer.
func NewEmbedder(tokenizer Tokenizer) *Embedder {
	return &Embedder{tokenizer: tokenizer}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// EmbedBatch fits a model over texts and returns their L2-normalized vectors.
// Texts without known tokens get a zero vector.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	docs := make([][]string, len(texts))
	for i, text := range texts {
		docs[i] = e.tokenizer.Tokens(text)
	}
	model, err := Fit(docs)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(docs))
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = model.Embed(doc)
	}
	return out, nil
}

// Model is a fitted vocabulary with smoothed IDF weights. It is immutable.
type Model struct {
	vocabulary map[string]int
	idf        []float64
}

// Fit builds the vocabulary and IDF values from tokenized documents.
func Fit(docs [][]string) (*Model, error) {
	if len(docs) == 0 {
		return nil, errors.New("tfidf: empty corpus")
	}
	// Build vocabulary and document frequencies
	df := make(map[string]int)
	for _, tokens := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	m := &Model{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		m.vocabulary[term] = i
		m.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return m, nil
}

// Dimension returns the vocabulary size.
func (m *Model) Dimension() int { return len(m.idf) }

// Embed computes the L2-normalized TF-IDF vector of a tokenized document.
func (m *Model) Embed(tokens []string) []float64 {
	vec := make([]float64, len(m.idf))
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		if idx, ok := m.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * m.idf[idx]
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
