package embedding

import "context"

// Embedder converts sentences into vectors whose cosine similarity reflects
// semantic closeness. Implementations must return exactly one vector per
// input text, in order, and must be safe for concurrent use.
type Embedder interface {
	Name() string
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}
