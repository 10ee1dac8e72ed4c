package main

import (
	"context"
	"fmt"
	"time"

	"artistify/internal/catalog"
	"artistify/internal/conceptspace"
	"artistify/internal/embedding"
	"artistify/internal/embedding/openai"
	"artistify/internal/embedding/tfidf"
	"artistify/internal/recommend"
	"artistify/internal/segmenter"
	"artistify/internal/service"
	"artistify/internal/summarizer"
	"artistify/internal/textnorm"
	"artistify/internal/vectorstore"
	"artistify/internal/vectorstore/hnsw"
	"artistify/internal/vectorstore/memory"
	"artistify/internal/vectorstore/qdrant"
)

func (c *commandContext) textTools() (*textnorm.Normalizer, *textnorm.SentenceSplitter, error) {
	if c.normalizer != nil {
		return c.normalizer, c.splitter, nil
	}
	n, err := textnorm.New()
	if err != nil {
		return nil, nil, err
	}
	sp, err := textnorm.NewSentenceSplitter()
	if err != nil {
		return nil, nil, err
	}
	c.normalizer, c.splitter = n, sp
	return n, sp, nil
}

func (c *commandContext) buildEmbedder() (embedding.Embedder, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	switch cfg.Embedder.Type {
	case "tfidf", "":
		n, _, err := c.textTools()
		if err != nil {
			return nil, err
		}
		return tfidf.NewEmbedder(n), nil
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		o := cfg.Embedder.OpenAI
		client, err := openai.NewClient(openai.Config{
			BaseURL:           o.BaseURL,
			APIKeyEnv:         o.APIKeyEnv,
			Model:             o.Model,
			Timeout:           time.Duration(o.TimeoutSecs) * time.Second,
			BatchSize:         o.BatchSize,
			RequestsPerSecond: o.RequestsPerSecond,
			AllowEmptyKey:     o.AllowEmptyKey,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

func (c *commandContext) buildSegmenter(opts segmenter.Options) (*segmenter.Segmenter, error) {
	_, sp, err := c.textTools()
	if err != nil {
		return nil, err
	}
	emb, err := c.buildEmbedder()
	if err != nil {
		return nil, err
	}
	return segmenter.New(sp, emb, opts, c.currentLogger())
}

func (c *commandContext) segmenterOptions() segmenter.Options {
	cfg, _ := c.ensureConfig()
	if cfg == nil {
		return segmenter.DefaultOptions()
	}
	return segmenter.Options{
		Threshold:      cfg.Segmenter.SimilarityThreshold,
		MinSceneLength: cfg.Segmenter.MinSceneLength,
	}
}

func (c *commandContext) buildSpace() (*conceptspace.Space, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	policy, err := conceptspace.ParsePolicy(cfg.ConceptSpace.Policy)
	if err != nil {
		return nil, err
	}
	corpus, err := conceptspace.LoadCorpus(cfg.ConceptSpace.CorpusPath, cfg.ConceptSpace.Snapshot)
	if err != nil {
		return nil, err
	}
	n, sp, err := c.textTools()
	if err != nil {
		return nil, err
	}
	return conceptspace.New(corpus, n, sp, conceptspace.Options{Policy: policy, Logger: c.currentLogger()})
}

func (c *commandContext) buildStore() (vectorstore.Storage, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	switch cfg.VectorStore.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "hnsw":
		hcfg := hnsw.Config{}
		if h := cfg.VectorStore.HNSW; h != nil {
			hcfg.M, hcfg.EfSearch = h.M, h.EfSearch
		}
		return hnsw.NewStorage(hcfg), nil
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		q := cfg.VectorStore.Qdrant
		return qdrant.NewStorage(qdrant.Config{
			URL:        q.URL,
			APIKey:     q.APIKey,
			Collection: q.Collection,
			Timeout:    time.Duration(q.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}
}

func (c *commandContext) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return catalog.Load(ctx, cfg.Catalog.Path, cfg.Catalog.Format, c.currentLogger())
}

func (c *commandContext) buildIndex(cat *catalog.Catalog) (*recommend.Index, error) {
	st, err := c.buildStore()
	if err != nil {
		return nil, err
	}
	return recommend.NewIndex(st, cat.Entries, cat.Snapshot, c.currentLogger())
}

func (c *commandContext) buildSoundtrackService(ctx context.Context, summarySentences int) (*service.SoundtrackService, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	seg, err := c.buildSegmenter(c.segmenterOptions())
	if err != nil {
		return nil, err
	}
	space, err := c.buildSpace()
	if err != nil {
		return nil, err
	}
	cat, err := c.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := c.buildIndex(cat)
	if err != nil {
		return nil, err
	}
	n, sp, err := c.textTools()
	if err != nil {
		return nil, err
	}
	opts := service.Options{
		Workers:          cfg.Service.Workers,
		MaxScenes:        cfg.Service.MaxScenes,
		MaxTracks:        cfg.Service.MaxTracks,
		Candidates:       cfg.Recommend.K,
		SummarySentences: summarySentences,
	}
	return service.NewSoundtrackService(seg, space, idx, cat, summarizer.NewFrequencySummarizer(sp, n), opts, c.currentLogger()), nil
}
