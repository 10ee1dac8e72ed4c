package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL           string  `yaml:"base_url"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	Model             string  `yaml:"model"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
	BatchSize         int     `yaml:"batch_size"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	AllowEmptyKey     bool    `yaml:"allow_empty_key"`
}

// EmbedderConfig selects and configures the sentence embedder used for scene segmentation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// SegmenterConfig tunes scene boundaries.
type SegmenterConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MinSceneLength      int     `yaml:"min_scene_length"`
}

// ConceptSpaceConfig points at the reference corpus.
type ConceptSpaceConfig struct {
	CorpusPath string `yaml:"corpus_path"`
	Snapshot   string `yaml:"snapshot"`
	Policy     string `yaml:"policy"`
}

// CatalogConfig points at the precomputed artist catalog.
type CatalogConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	HNSW   *HNSWConfig   `yaml:"hnsw,omitempty"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// HNSWConfig tunes the in-process approximate index.
type HNSWConfig struct {
	M        int `yaml:"m"`
	EfSearch int `yaml:"ef_search"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// RecommendConfig configures artist recommendation.
type RecommendConfig struct {
	K int `yaml:"k"`
}

// ServiceConfig bounds the soundtrack pipeline.
type ServiceConfig struct {
	Workers   int `yaml:"workers"`
	MaxScenes int `yaml:"max_scenes"`
	MaxTracks int `yaml:"max_tracks"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder     EmbedderConfig     `yaml:"embedder"`
	Segmenter    SegmenterConfig    `yaml:"segmenter"`
	ConceptSpace ConceptSpaceConfig `yaml:"concept_space"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	VectorStore  VectorStoreConfig  `yaml:"vector_store"`
	Recommend    RecommendConfig    `yaml:"recommend"`
	Service      ServiceConfig      `yaml:"service"`
	Log          LogConfig          `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	// Start from defaults so omitted sections keep them
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/artistify/config.yaml.
// If neither exists, it writes defaults to ~/.config/artistify/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects out-of-range values and unknown component types.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "tfidf", "openai":
	default:
		return fmt.Errorf("unknown embedder type %q", c.Embedder.Type)
	}
	if t := c.Segmenter.SimilarityThreshold; t < 0 || t > 1 {
		return fmt.Errorf("segmenter.similarity_threshold %v outside [0,1]", t)
	}
	if c.Segmenter.MinSceneLength < 1 {
		return fmt.Errorf("segmenter.min_scene_length must be >= 1")
	}
	switch c.ConceptSpace.Policy {
	case "per_call", "snapshot":
	default:
		return fmt.Errorf("unknown concept_space.policy %q", c.ConceptSpace.Policy)
	}
	switch c.Catalog.Format {
	case "", "csv", "sqlite":
	default:
		return fmt.Errorf("unknown catalog.format %q", c.Catalog.Format)
	}
	switch c.VectorStore.Type {
	case "memory", "hnsw":
	case "qdrant":
		if c.VectorStore.Qdrant == nil || c.VectorStore.Qdrant.URL == "" {
			return fmt.Errorf("vector_store.qdrant.url is required")
		}
	default:
		return fmt.Errorf("unknown vector store type %q", c.VectorStore.Type)
	}
	if c.Recommend.K < 1 {
		return fmt.Errorf("recommend.k must be >= 1")
	}
	if c.Service.Workers < 1 {
		return fmt.Errorf("service.workers must be >= 1")
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "artistify", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *AppConfig { return defaultConfig() }

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:     EmbedderConfig{Type: "tfidf"},
		Segmenter:    SegmenterConfig{SimilarityThreshold: 0.7, MinSceneLength: 2},
		ConceptSpace: ConceptSpaceConfig{CorpusPath: "corpus.json", Policy: "per_call"},
		Catalog:      CatalogConfig{Path: "esa_vectors_all_lyrics.csv"},
		VectorStore:  VectorStoreConfig{Type: "memory"},
		Recommend:    RecommendConfig{K: 5},
		Service:      ServiceConfig{Workers: 4, MaxScenes: 50, MaxTracks: 50},
		Log:          LogConfig{Level: "info"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 32
		}
	}
	if cfg.ConceptSpace.Policy == "" {
		cfg.ConceptSpace.Policy = "per_call"
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Type == "hnsw" && cfg.VectorStore.HNSW == nil {
		cfg.VectorStore.HNSW = &HNSWConfig{M: 16, EfSearch: 32}
	}
	if q := cfg.VectorStore.Qdrant; q != nil {
		if q.Collection == "" {
			q.Collection = "artistify_catalog"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 15
		}
	}
	if cfg.Service.Workers == 0 {
		cfg.Service.Workers = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
