package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"artistify/internal/assign"
	"artistify/internal/domain"
)

// Options bound the soundtrack pipeline.
type Options struct {
	// Workers caps concurrent vectorization calls.
	Workers int
	// MaxScenes rejects stories with more scenes. 0 means no limit.
	MaxScenes int
	// MaxTracks caps the number of candidate tracks. 0 means no limit.
	MaxTracks int
	// Candidates is how many artists to ask the recommender for.
	Candidates int
	// SummarySentences is the length of each scene summary; 0 disables summaries.
	SummarySentences int
}

// Request is one soundtrack generation.
type Request struct {
	Story string
	// Artist overrides the recommendation when set.
	Artist string
}

// Soundtrack is the outcome of a generation run.
type Soundtrack struct {
	RunID       string
	Artist      string
	Recommended bool
	// Candidates are the recommended artists, best first. Empty on override.
	Candidates  []string
	Snapshot    string
	Scenes      []domain.Scene
	Tracks      []domain.Track
	StoryVector domain.ConceptVector
	Assignment  assign.Result
	Timings     domain.StageTimings
}

// Placement is one scene with the song assigned to it.
type Placement struct {
	Scene      domain.Scene
	Track      *domain.Track
	Similarity float64
}

// Placements joins assignment pairs back to scene text and track metadata,
// in scene order. Unmatched scenes have a nil Track.
func (s *Soundtrack) Placements() []Placement {
	out := make([]Placement, len(s.Scenes))
	for i, sc := range s.Scenes {
		out[i] = Placement{Scene: sc}
	}
	for _, p := range s.Assignment.Pairs {
		if p.Scene < len(out) && p.Song < len(s.Tracks) {
			t := s.Tracks[p.Song]
			out[p.Scene].Track = &t
			out[p.Scene].Similarity = p.Similarity
		}
	}
	return out
}

// SoundtrackService turns a story into scene/song placements.
type SoundtrackService struct {
	segmenter   domain.Segmenter
	vectorizer  domain.Vectorizer
	recommender domain.Recommender
	tracks      domain.TrackSource
	summarizer  domain.Summarizer
	opts        Options
	logger      *log.Logger
}

// NewSoundtrackService wires the pipeline. recommender may be nil when every
// request names an artist; summarizer may be nil.
func NewSoundtrackService(segmenter domain.Segmenter, vectorizer domain.Vectorizer, recommender domain.Recommender, tracks domain.TrackSource, summarizer domain.Summarizer, opts Options, logger *log.Logger) *SoundtrackService {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Candidates <= 0 {
		opts.Candidates = 5
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SoundtrackService{
		segmenter:   segmenter,
		vectorizer:  vectorizer,
		recommender: recommender,
		tracks:      tracks,
		summarizer:  summarizer,
		opts:        opts,
		logger:      logger,
	}
}

// Generate runs the full pipeline: split scenes, vectorize them, average into
// a story vector, pick an artist, fetch one candidate track per scene,
// vectorize the lyrics and assign tracks to scenes.
func (s *SoundtrackService) Generate(ctx context.Context, req Request) (*Soundtrack, error) {
	const op = "service.Generate"
	out := &Soundtrack{RunID: uuid.NewString(), Snapshot: s.vectorizer.Snapshot()}
	logger := s.logger.With("run", out.RunID)

	start := time.Now()
	scenes, err := s.segmenter.Segment(ctx, req.Story)
	if err != nil {
		return nil, fmt.Errorf("service: split scenes: %w", err)
	}
	if len(scenes) == 0 {
		return nil, domain.Errorf(domain.KindEmptyInput, op, "story has no sentences")
	}
	if s.opts.MaxScenes > 0 && len(scenes) > s.opts.MaxScenes {
		return nil, domain.Errorf(domain.KindInvalidArgument, op, "story has %d scenes, limit is %d", len(scenes), s.opts.MaxScenes)
	}
	out.Timings.SceneSplit = time.Since(start)

	start = time.Now()
	texts := make([]string, len(scenes))
	for i, sc := range scenes {
		texts[i] = sc.Text
	}
	sceneVecs, err := s.vectorizeAll(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("service: vectorize scenes: %w", err)
	}
	for i := range scenes {
		if sceneVecs[i] == nil {
			return nil, domain.Errorf(domain.KindEmptyInput, op, "scene %d has no usable terms", i+1)
		}
		scenes[i].Vector = sceneVecs[i]
		if s.summarizer != nil && s.opts.SummarySentences > 0 {
			if sum, err := s.summarizer.Summarize(scenes[i].Text, s.opts.SummarySentences); err == nil {
				scenes[i].Summary = sum
			}
		}
	}
	out.Scenes = scenes
	out.Timings.SceneVectors = time.Since(start)

	start = time.Now()
	story, _ := domain.MeanVector(sceneVecs)
	out.StoryVector = story
	out.Timings.StoryVector = time.Since(start)

	start = time.Now()
	if req.Artist != "" {
		out.Artist = req.Artist
	} else {
		if s.recommender == nil {
			return nil, domain.Errorf(domain.KindInvalidArgument, op, "no artist given and no catalog loaded")
		}
		if snap := s.recommender.Snapshot(); snap != "" && snap != out.Snapshot {
			return nil, domain.Errorf(domain.KindSnapshotMismatch, op, "catalog built against %s, corpus is %s", snap, out.Snapshot)
		}
		names, err := s.recommender.Recommend(story, s.opts.Candidates)
		if err != nil {
			return nil, fmt.Errorf("service: recommend artist: %w", err)
		}
		if len(names) == 0 {
			return nil, domain.Errorf(domain.KindEmptyCatalog, op, "no artist recommended")
		}
		out.Artist = names[0]
		out.Candidates = names
		out.Recommended = true
	}
	out.Timings.Recommendation = time.Since(start)
	logger.Info("artist chosen", "artist", out.Artist, "recommended", out.Recommended)

	start = time.Now()
	n := len(scenes)
	if s.opts.MaxTracks > 0 && n > s.opts.MaxTracks {
		n = s.opts.MaxTracks
	}
	tracks, err := s.topTracks(ctx, out, n)
	if err != nil {
		return nil, err
	}
	out.Timings.TrackRetrieval = time.Since(start)

	start = time.Now()
	lyrics := make([]string, len(tracks))
	for i := range tracks {
		tracks[i].Title = CleanTitle(tracks[i].Title)
		lyrics[i] = CleanLyrics(tracks[i].Lyrics)
		tracks[i].Lyrics = lyrics[i]
	}
	out.Timings.LyricsCleaning = time.Since(start)

	start = time.Now()
	trackVecs, err := s.vectorizeAll(ctx, lyrics)
	if err != nil {
		return nil, fmt.Errorf("service: vectorize lyrics: %w", err)
	}
	var songVecs []domain.ConceptVector
	for i, v := range trackVecs {
		if v == nil {
			logger.Warn("dropping track without usable lyrics", "track", tracks[i].Title)
			continue
		}
		out.Tracks = append(out.Tracks, tracks[i])
		songVecs = append(songVecs, v)
	}
	out.Timings.TrackVectors = time.Since(start)

	start = time.Now()
	out.Assignment, err = assign.Assign(sceneVecs, songVecs)
	if err != nil {
		return nil, fmt.Errorf("service: assign songs: %w", err)
	}
	out.Timings.Assignment = time.Since(start)
	if len(out.Tracks) == 0 {
		logger.Warn("no usable tracks for artist", "artist", out.Artist)
	}
	logger.Info("soundtrack generated", "scenes", len(scenes), "tracks", len(out.Tracks), "total", out.Assignment.Total)
	return out, nil
}

// topTracks fetches candidates for out.Artist. An override that matches no
// catalog artist exactly is resolved to the closest name by token overlap.
func (s *SoundtrackService) topTracks(ctx context.Context, out *Soundtrack, n int) ([]domain.Track, error) {
	tracks, err := s.tracks.TopTracks(ctx, out.Artist, n)
	if err != nil {
		return nil, fmt.Errorf("service: fetch tracks for %s: %w", out.Artist, err)
	}
	if len(tracks) > 0 || out.Recommended {
		return tracks, nil
	}
	lister, ok := s.tracks.(interface{ Artists() []string })
	if !ok {
		return tracks, nil
	}
	name, score := closestArtist(out.Artist, lister.Artists())
	if name == "" {
		return tracks, nil
	}
	s.logger.Info("resolved artist override", "requested", out.Artist, "artist", name, "score", score)
	out.Artist = name
	tracks, err = s.tracks.TopTracks(ctx, name, n)
	if err != nil {
		return nil, fmt.Errorf("service: fetch tracks for %s: %w", name, err)
	}
	return tracks, nil
}

// vectorizeAll vectorizes texts concurrently. Texts without usable terms get
// a nil vector; every other failure aborts the batch.
func (s *SoundtrackService) vectorizeAll(ctx context.Context, texts []string) ([]domain.ConceptVector, error) {
	out := make([]domain.ConceptVector, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, text := range texts {
		g.Go(func() error {
			v, err := s.vectorizer.Vectorize(gctx, text)
			if errors.Is(err, domain.ErrEmptyInput) {
				return nil
			}
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
