// Package conceptspace maps text to explicit semantic analysis vectors: one
// coordinate per reference topic, each the TF-IDF cosine similarity between
// the text and that topic.
package conceptspace

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/mat"

	"artistify/internal/domain"
)

// Policy selects how the TF-IDF weighting model is fitted.
type Policy string

const (
	// PerCall fits a joint model over the input sentences and the corpus on
	// every call.
	PerCall Policy = "per_call"
	// Snapshot fits once over the corpus and reuses the model as a fixed
	// transform. Terms absent from the corpus are ignored.
	Snapshot Policy = "snapshot"
)

// ParsePolicy accepts "", "per_call", "per-call" and "snapshot".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per_call", "per-call", "percall":
		return PerCall, nil
	case "snapshot":
		return Snapshot, nil
	}
	return "", domain.Errorf(domain.KindInvalidArgument, "conceptspace", "unknown policy %q", s)
}

// Normalizer reduces text to space-separated normalized tokens.
type Normalizer interface {
	Normalize(text string) string
}

// Splitter splits text into sentences.
type Splitter interface {
	Split(text string) []string
}

// Options configure a Space.
type Options struct {
	Policy Policy
	Logger *log.Logger
}

// Space vectorizes documents against a reference corpus. It is safe for
// concurrent use.
type Space struct {
	corpus     *Corpus
	normalizer Normalizer
	splitter   Splitter
	policy     Policy
	logger     *log.Logger

	// normalized corpus texts, coordinate order
	docs []string

	// Snapshot policy state, read-only after construction except for the
	// pipeline which is guarded by mu.
	mu       sync.Mutex
	pipeline *nlp.Pipeline
	columns  [][]float64
}

// New builds a Space over corpus. Corpus texts are normalized once here.
func New(corpus *Corpus, normalizer Normalizer, splitter Splitter, opts Options) (*Space, error) {
	if corpus == nil {
		return nil, domain.Errorf(domain.KindInvalidArgument, "conceptspace.New", "nil corpus")
	}
	if opts.Policy == "" {
		opts.Policy = PerCall
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	s := &Space{
		corpus:     corpus,
		normalizer: normalizer,
		splitter:   splitter,
		policy:     opts.Policy,
		logger:     opts.Logger,
		docs:       make([]string, corpus.Len()),
	}
	for i, t := range corpus.topics {
		s.docs[i] = normalizer.Normalize(t.Text)
	}
	switch s.policy {
	case PerCall:
	case Snapshot:
		if hasLetters(s.docs) {
			s.pipeline = newPipeline()
			m, err := s.pipeline.FitTransform(s.docs...)
			if err != nil {
				return nil, fmt.Errorf("conceptspace: fit corpus: %w", err)
			}
			s.columns = columns(m)
		}
	default:
		return nil, domain.Errorf(domain.KindInvalidArgument, "conceptspace.New", "unknown policy %q", s.policy)
	}
	s.logger.Debug("concept space ready", "topics", corpus.Len(), "snapshot", corpus.Snapshot(), "policy", s.policy)
	return s, nil
}

// Dimension returns D, the number of corpus topics.
func (s *Space) Dimension() int { return s.corpus.Len() }

// Snapshot returns the corpus snapshot tag.
func (s *Space) Snapshot() string { return s.corpus.Snapshot() }

// Policy returns the weighting policy.
func (s *Space) Policy() Policy { return s.policy }

// Corpus returns the reference corpus.
func (s *Space) Corpus() *Corpus { return s.corpus }

// Vectorize returns the mean of the per-sentence similarity rows of text.
func (s *Space) Vectorize(ctx context.Context, text string) (domain.ConceptVector, error) {
	rows, err := s.VectorizeSentences(ctx, text)
	if err != nil {
		return nil, err
	}
	mean, _ := domain.MeanVector(rows)
	return mean, nil
}

// VectorizeSentences returns one D-length similarity row per sentence of text.
func (s *Space) VectorizeSentences(ctx context.Context, text string) ([]domain.ConceptVector, error) {
	const op = "conceptspace.Vectorize"
	if s.corpus.Len() == 0 {
		return nil, domain.NewError(domain.KindEmptyCorpus, op)
	}
	sentences := s.splitter.Split(text)
	if len(sentences) == 0 {
		return nil, domain.Errorf(domain.KindEmptyInput, op, "no sentences")
	}
	normalized := make([]string, len(sentences))
	for i, sent := range sentences {
		normalized[i] = s.normalizer.Normalize(sent)
	}
	if !hasTerms(normalized) {
		return nil, domain.Errorf(domain.KindEmptyInput, op, "no terms after normalization")
	}

	var sentCols, corpusCols [][]float64
	var err error
	switch s.policy {
	case Snapshot:
		sentCols, err = s.transformSnapshot(normalized)
		corpusCols = s.columns
	default:
		sentCols, corpusCols, err = s.fitJoint(normalized)
	}
	if err != nil {
		return nil, err
	}

	d := s.corpus.Len()
	rows := make([]domain.ConceptVector, len(normalized))
	for i := range normalized {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make(domain.ConceptVector, d)
		if sentCols != nil && corpusCols != nil {
			for j := 0; j < d; j++ {
				row[j] = domain.CosineSimilarity(sentCols[i], corpusCols[j])
			}
		}
		rows[i] = row
	}
	return rows, nil
}

// fitJoint fits one model over sentences followed by corpus documents.
func (s *Space) fitJoint(sentences []string) ([][]float64, [][]float64, error) {
	all := make([]string, 0, len(sentences)+len(s.docs))
	all = append(all, sentences...)
	all = append(all, s.docs...)
	if !hasLetters(all) {
		return nil, nil, nil
	}
	m, err := newPipeline().FitTransform(all...)
	if err != nil {
		return nil, nil, fmt.Errorf("conceptspace: fit: %w", err)
	}
	cols := columns(m)
	return cols[:len(sentences)], cols[len(sentences):], nil
}

func (s *Space) transformSnapshot(sentences []string) ([][]float64, error) {
	if s.pipeline == nil {
		return nil, nil
	}
	s.mu.Lock()
	m, err := s.pipeline.Transform(sentences...)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("conceptspace: transform: %w", err)
	}
	return columns(m), nil
}

// columns extracts document columns from a terms × documents matrix.
func columns(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, c)
	for j := 0; j < c; j++ {
		out[j] = make([]float64, r)
		for i := 0; i < r; i++ {
			out[j][i] = m.At(i, j)
		}
	}
	return out
}

// hasLetters reports whether the vectoriser's letter tokenizer will find any
// term. An empty vocabulary cannot be turned into a matrix.
func hasLetters(docs []string) bool {
	for _, d := range docs {
		if strings.IndexFunc(d, unicode.IsLetter) >= 0 {
			return true
		}
	}
	return false
}

func hasTerms(docs []string) bool {
	for _, d := range docs {
		if strings.TrimSpace(d) != "" {
			return true
		}
	}
	return false
}
