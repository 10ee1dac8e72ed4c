// Package catalog loads the precomputed artist catalog: one row per track
// with the track's concept vector.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"artistify/internal/domain"
)

// Format is a catalog storage format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
)

// DetectFormat returns the explicit format if set, else infers it from the
// file extension. Unknown extensions are read as CSV.
func DetectFormat(path string, explicit string) (Format, error) {
	switch strings.ToLower(explicit) {
	case "csv":
		return FormatCSV, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	case "":
	default:
		return "", domain.Errorf(domain.KindInvalidArgument, "catalog", "unknown format %q", explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return FormatCSV, nil
}

// Catalog is the usable subset of a catalog source, in source order.
// It implements domain.TrackSource.
type Catalog struct {
	Entries []domain.CatalogEntry
	// Snapshot is the corpus snapshot the vectors were computed against,
	// empty if the source does not say.
	Snapshot string
	// Skipped counts corrupt records dropped during load.
	Skipped int
}

// Load reads a catalog from path in the given format ("" infers it).
func Load(ctx context.Context, path, format string, logger *log.Logger) (*Catalog, error) {
	f, err := DetectFormat(path, format)
	if err != nil {
		return nil, err
	}
	if f == FormatSQLite {
		return LoadSQLite(ctx, path, logger)
	}
	return LoadCSV(path, logger)
}

// Artists returns distinct artist names in catalog order.
func (c *Catalog) Artists() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range c.Entries {
		if _, ok := seen[e.Artist]; ok {
			continue
		}
		seen[e.Artist] = struct{}{}
		out = append(out, e.Artist)
	}
	return out
}

// TopTracks returns up to n distinct tracks of artist in catalog order.
// n <= 0 returns all of them. Artist names match case-insensitively.
func (c *Catalog) TopTracks(ctx context.Context, artist string, n int) ([]domain.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []domain.Track
	for _, e := range c.Entries {
		if !strings.EqualFold(e.Artist, artist) {
			continue
		}
		key := strings.ToLower(e.Track)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.Track{Artist: e.Artist, Title: e.Track, Lyrics: e.Lyrics})
		if n > 0 && len(out) == n {
			break
		}
	}
	return out, nil
}

// builder accumulates records, skipping corrupt ones with a warning.
type builder struct {
	cat    Catalog
	logger *log.Logger
}

func newBuilder(logger *log.Logger) *builder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &builder{logger: logger}
}

func (b *builder) add(row int, artist, track, lyrics, vector, snapshot string) {
	artist = strings.TrimSpace(artist)
	if artist == "" {
		b.skip(row, "missing artist", nil)
		return
	}
	vec, err := ParseVector(vector)
	if err != nil {
		b.skip(row, "bad esa_vector", err)
		return
	}
	snapshot = strings.TrimSpace(snapshot)
	if snapshot != "" {
		if b.cat.Snapshot == "" {
			b.cat.Snapshot = snapshot
		} else if snapshot != b.cat.Snapshot {
			b.skip(row, "snapshot "+snapshot+" differs from "+b.cat.Snapshot, nil)
			return
		}
	}
	b.cat.Entries = append(b.cat.Entries, domain.CatalogEntry{
		Row:    row,
		Artist: artist,
		Track:  strings.TrimSpace(track),
		Lyrics: lyrics,
		Vector: vec,
	})
}

func (b *builder) skip(row int, reason string, err error) {
	b.cat.Skipped++
	rec := domain.Errorf(domain.KindCorruptRecord, "catalog", "row %d: %s", row, reason)
	if err != nil {
		b.logger.Warn("skipping catalog record", "row", row, "err", rec, "cause", err)
		return
	}
	b.logger.Warn("skipping catalog record", "row", row, "err", rec)
}

func (b *builder) done(source string) *Catalog {
	b.logger.Info("catalog loaded", "source", source, "entries", len(b.cat.Entries), "skipped", b.cat.Skipped, "snapshot", b.cat.Snapshot)
	c := b.cat
	return &c
}

// ParseVector decodes a numeric list such as "[0.1, 0.2]". One level of
// nesting ("[[0.1, 0.2]]") is flattened. Empty vectors and values JSON
// cannot express, such as nan, are corrupt.
func ParseVector(s string) (domain.ConceptVector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, domain.Errorf(domain.KindCorruptRecord, "catalog.ParseVector", "empty vector")
	}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, domain.Errorf(domain.KindCorruptRecord, "catalog.ParseVector", "%v", err)
	}
	var out domain.ConceptVector
	for _, item := range raw {
		item = json.RawMessage(strings.TrimSpace(string(item)))
		if len(item) > 0 && item[0] == '[' {
			var inner []float64
			if err := json.Unmarshal(item, &inner); err != nil {
				return nil, domain.Errorf(domain.KindCorruptRecord, "catalog.ParseVector", "%v", err)
			}
			out = append(out, inner...)
			continue
		}
		var x float64
		if err := json.Unmarshal(item, &x); err != nil {
			return nil, domain.Errorf(domain.KindCorruptRecord, "catalog.ParseVector", "%v", err)
		}
		out = append(out, x)
	}
	if len(out) == 0 {
		return nil, domain.Errorf(domain.KindCorruptRecord, "catalog.ParseVector", "empty vector")
	}
	return out, nil
}

// FormatVector encodes a vector the way ParseVector reads it.
func FormatVector(v domain.ConceptVector) (string, error) {
	data, err := json.Marshal([]float64(v))
	if err != nil {
		return "", fmt.Errorf("catalog: encode vector: %w", err)
	}
	return string(data), nil
}
