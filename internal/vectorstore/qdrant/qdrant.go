package qdrant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"artistify/internal/domain"
	"artistify/internal/vectorstore"
)

// Storage is a minimal REST client to Qdrant.
// It assumes cosine distance and creates the collection if missing.
// Point IDs are catalog rows.
type Storage struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if cfg.Collection == "" {
		cfg.Collection = "artistify_catalog"
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("qdrant: invalid dimension")
	}
	s.dimension = dimension
	// Create collection if not exists
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.putJSON(s.collectionURL(""), body)
}

func (s *Storage) Upsert(entries []domain.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	points := make([]map[string]any, len(entries))
	for i, e := range entries {
		if len(e.Vector) != s.dimension {
			return errors.New("qdrant: vector dimension mismatch")
		}
		points[i] = map[string]any{
			"id":     e.Row,
			"vector": e.Vector,
			"payload": map[string]any{
				"row":    e.Row,
				"artist": e.Artist,
				"track":  e.Track,
				"lyrics": e.Lyrics,
			},
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(s.collectionURL("/points?wait=true"), body)
}

func (s *Storage) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	if len(vector) != s.dimension {
		return nil, errors.New("qdrant: query dimension mismatch")
	}
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
		"with_vector":  true,
	}
	var resp struct {
		Result []struct {
			ID      json.Number `json:"id"`
			Score   float64     `json:"score"`
			Vector  []float64   `json:"vector"`
			Payload struct {
				Row    int    `json:"row"`
				Artist string `json:"artist"`
				Track  string `json:"track"`
				Lyrics string `json:"lyrics"`
			} `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(s.collectionURL("/points/search"), req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		entry := domain.CatalogEntry{
			Row:    r.Payload.Row,
			Artist: r.Payload.Artist,
			Track:  r.Payload.Track,
			Lyrics: r.Payload.Lyrics,
			Vector: r.Vector,
		}
		results = append(results, domain.SearchResult{Entry: entry, Score: r.Score})
	}
	// stored vectors come back normalized; cosine is unaffected
	if allHaveVectors(results) {
		vectorstore.Rescore(vector, results)
	} else {
		vectorstore.Rank(results)
	}
	return results, nil
}

func (s *Storage) Clear() error {
	req, err := http.NewRequest(http.MethodDelete, s.collectionURL(""), nil)
	if err != nil {
		return err
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant: drop collection: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("qdrant DELETE %s failed: %s", s.collection, resp.Status)
	}
	return nil
}

func (s *Storage) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.url, s.collection, suffix)
}

func allHaveVectors(results []domain.SearchResult) bool {
	for _, r := range results {
		if len(r.Entry.Vector) == 0 {
			return false
		}
	}
	return true
}

func (s *Storage) putJSON(url string, body any) error {
	return s.do(http.MethodPut, url, body, nil)
}

func (s *Storage) postJSON(url string, body any, out any) error {
	return s.do(http.MethodPost, url, body, out)
}

func (s *Storage) do(method, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("qdrant: marshal request: %w", err)
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
