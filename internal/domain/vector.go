package domain

import "math"

// CosineSimilarity computes similarity between two vectors.
// Returns 0 if the vectors have different lengths, are empty, or either has
// zero norm.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// MeanVector averages vectors coordinate-wise. All vectors must share the
// length of the first one; ok is false otherwise or when vectors is empty.
func MeanVector(vectors []ConceptVector) (ConceptVector, bool) {
	if len(vectors) == 0 {
		return nil, false
	}
	dim := len(vectors[0])
	mean := make(ConceptVector, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, false
		}
		for i, x := range v {
			mean[i] += x
		}
	}
	n := float64(len(vectors))
	for i := range mean {
		mean[i] /= n
	}
	return mean, true
}
