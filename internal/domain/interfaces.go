package domain

import (
	"context"
	"time"
)

// ConceptVector holds one cosine similarity per reference topic.
// Vectors are only comparable when derived from the same corpus snapshot.
type ConceptVector []float64

// Scene is a contiguous run of sentences from a story.
type Scene struct {
	Index         int
	FirstSentence int // 1-based index of the first sentence in the story
	Sentences     []string
	Text          string
	Summary       string
	Vector        ConceptVector
}

// Len returns the number of sentences in the scene.
func (s Scene) Len() int { return len(s.Sentences) }

// CatalogEntry is one precomputed (artist, vector) row of the artist catalog.
type CatalogEntry struct {
	Row    int
	Artist string
	Track  string
	Lyrics string
	Vector ConceptVector
}

// SearchResult is a catalog entry retrieved by a vector store with its cosine similarity.
type SearchResult struct {
	Entry CatalogEntry
	Score float64
}

// Track is a song candidate for a soundtrack.
type Track struct {
	Artist string
	Title  string
	Lyrics string
}

// Pair matches scene Scene to song Song.
type Pair struct {
	Scene      int
	Song       int
	Similarity float64
}

// StageTimings records how long each soundtrack stage took.
type StageTimings struct {
	SceneSplit     time.Duration `json:"scene_split"`
	SceneVectors   time.Duration `json:"scene_vectors"`
	StoryVector    time.Duration `json:"story_vector"`
	Recommendation time.Duration `json:"recommendation"`
	TrackRetrieval time.Duration `json:"track_retrieval"`
	LyricsCleaning time.Duration `json:"lyrics_cleaning"`
	TrackVectors   time.Duration `json:"track_vectors"`
	Assignment     time.Duration `json:"assignment"`
}

// Vectorizer maps free text to a concept vector.
type Vectorizer interface {
	Vectorize(ctx context.Context, text string) (ConceptVector, error)
	Dimension() int
	Snapshot() string
}

// Segmenter splits a story into scenes.
type Segmenter interface {
	Segment(ctx context.Context, text string) ([]Scene, error)
}

// Recommender ranks artists for a story vector.
type Recommender interface {
	Recommend(query ConceptVector, k int) ([]string, error)
	Snapshot() string
}

// TrackSource supplies song candidates for an artist.
type TrackSource interface {
	TopTracks(ctx context.Context, artist string, n int) ([]Track, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
