package conceptspace

import (
	"fmt"
	"math"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/mat"
)

// smoothIDF weights a terms × documents count matrix by
// log((1+n)/(1+df)) + 1. Terms present in every document keep weight 1
// instead of vanishing.
type smoothIDF struct {
	weights []float64
}

func newSmoothIDF() *smoothIDF { return &smoothIDF{} }

func newPipeline() *nlp.Pipeline {
	return nlp.NewPipeline(nlp.NewCountVectoriser(), newSmoothIDF())
}

// Fit computes document frequencies from m.
func (t *smoothIDF) Fit(m mat.Matrix) nlp.Transformer {
	terms, docs := m.Dims()
	df := make([]int, terms)
	if nz, ok := m.(mat.NonZeroDoer); ok {
		nz.DoNonZero(func(i, _ int, v float64) {
			if v != 0 {
				df[i]++
			}
		})
	} else {
		for i := 0; i < terms; i++ {
			for j := 0; j < docs; j++ {
				if m.At(i, j) != 0 {
					df[i]++
				}
			}
		}
	}
	n := float64(docs)
	t.weights = make([]float64, terms)
	for i, d := range df {
		t.weights[i] = math.Log((1+n)/(1+float64(d))) + 1
	}
	return t
}

// Transform scales each term row of m by its weight.
func (t *smoothIDF) Transform(m mat.Matrix) (mat.Matrix, error) {
	terms, docs := m.Dims()
	if terms != len(t.weights) {
		return nil, fmt.Errorf("conceptspace: idf fitted on %d terms, got %d", len(t.weights), terms)
	}
	out := mat.NewDense(terms, docs, nil)
	for i := 0; i < terms; i++ {
		w := t.weights[i]
		for j := 0; j < docs; j++ {
			if v := m.At(i, j); v != 0 {
				out.Set(i, j, v*w)
			}
		}
	}
	return out, nil
}

// FitTransform fits on m and transforms it.
func (t *smoothIDF) FitTransform(m mat.Matrix) (mat.Matrix, error) {
	return t.Fit(m).Transform(m)
}
