// Package segmenter groups the sentences of a story into scenes wherever the
// similarity between neighbouring sentences drops below a threshold.
package segmenter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"artistify/internal/domain"
	"artistify/internal/embedding"
)

const (
	DefaultThreshold      = 0.7
	DefaultMinSceneLength = 2
)

// Splitter splits text into sentences.
type Splitter interface {
	Split(text string) []string
}

// Options tune scene boundaries.
type Options struct {
	// Threshold is the minimum neighbour similarity that keeps a sentence in
	// the current scene. Must be within [0, 1].
	Threshold float64
	// MinSceneLength is the number of sentences a scene needs before it can
	// be closed.
	MinSceneLength int
}

// DefaultOptions returns threshold 0.7 and minimum length 2.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, MinSceneLength: DefaultMinSceneLength}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.Threshold < 0 || o.Threshold > 1 {
		return domain.Errorf(domain.KindInvalidArgument, "segmenter", "threshold %v outside [0,1]", o.Threshold)
	}
	if o.MinSceneLength < 1 {
		return domain.Errorf(domain.KindInvalidArgument, "segmenter", "min scene length %d < 1", o.MinSceneLength)
	}
	return nil
}

// Segmenter implements domain.Segmenter.
type Segmenter struct {
	splitter Splitter
	embedder embedding.Embedder
	opts     Options
	logger   *log.Logger
}

// New returns a segmenter. A nil logger discards output.
func New(splitter Splitter, embedder embedding.Embedder, opts Options, logger *log.Logger) (*Segmenter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Segmenter{splitter: splitter, embedder: embedder, opts: opts, logger: logger}, nil
}

// Options returns the configured options.
func (s *Segmenter) Options() Options { return s.opts }

// Segment splits text into scenes with the configured options.
func (s *Segmenter) Segment(ctx context.Context, text string) ([]domain.Scene, error) {
	return s.SegmentWith(ctx, text, s.opts)
}

// SegmentWith splits text into scenes with explicit options. Empty text
// yields no scenes and no error.
func (s *Segmenter) SegmentWith(ctx context.Context, text string, opts Options) ([]domain.Scene, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	sentences := s.splitter.Split(text)
	if len(sentences) == 0 {
		return nil, nil
	}
	if len(sentences) == 1 {
		return []domain.Scene{newScene(0, 1, sentences)}, nil
	}

	vecs, err := s.embedder.EmbedBatch(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("segmenter: embed sentences: %w", err)
	}
	if len(vecs) != len(sentences) {
		return nil, fmt.Errorf("segmenter: embedder %s returned %d vectors for %d sentences", s.embedder.Name(), len(vecs), len(sentences))
	}

	var scenes []domain.Scene
	start := 0
	for i := 1; i < len(sentences); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sim := domain.CosineSimilarity(vecs[i], vecs[i-1])
		if sim < opts.Threshold && i-start >= opts.MinSceneLength {
			scenes = append(scenes, newScene(len(scenes), start+1, sentences[start:i]))
			start = i
		}
	}
	scenes = append(scenes, newScene(len(scenes), start+1, sentences[start:]))
	s.logger.Debug("segmented story", "sentences", len(sentences), "scenes", len(scenes), "embedder", s.embedder.Name())
	return scenes, nil
}

func newScene(index, first int, sentences []string) domain.Scene {
	cp := make([]string, len(sentences))
	copy(cp, sentences)
	return domain.Scene{
		Index:         index,
		FirstSentence: first,
		Sentences:     cp,
		Text:          strings.Join(cp, " "),
	}
}
