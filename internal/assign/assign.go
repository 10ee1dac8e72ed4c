// Package assign pairs scenes with songs by maximizing total cosine
// similarity under a one-to-one constraint.
package assign

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"artistify/internal/domain"
)

// Result is an optimal injective matching between scenes and songs.
type Result struct {
	// Pairs are sorted by scene index; len(Pairs) == min(scenes, songs).
	Pairs []domain.Pair
	// Total is the sum of matched similarities.
	Total float64
	// Matrix[i][j] is the cosine similarity of scene i and song j.
	Matrix [][]float64
}

// Similarity returns Matrix[i][j], or 0 when out of range.
func (r Result) Similarity(i, j int) float64 {
	if i < 0 || i >= len(r.Matrix) || j < 0 || j >= len(r.Matrix[i]) {
		return 0
	}
	return r.Matrix[i][j]
}

// SongFor returns the song matched to scene i.
func (r Result) SongFor(scene int) (int, bool) {
	for _, p := range r.Pairs {
		if p.Scene == scene {
			return p.Song, true
		}
	}
	return 0, false
}

// Assign solves the scene/song assignment with cost 1 - similarity.
// Empty inputs give an empty result.
func Assign(scenes, songs []domain.ConceptVector) (Result, error) {
	const op = "assign"
	if len(scenes) == 0 || len(songs) == 0 {
		return Result{}, nil
	}
	sd, err := dimension(scenes)
	if err != nil {
		return Result{}, domain.Errorf(domain.KindDimensionMismatch, op, "scene %v", err)
	}
	td, err := dimension(songs)
	if err != nil {
		return Result{}, domain.Errorf(domain.KindDimensionMismatch, op, "song %v", err)
	}
	if sd != td {
		return Result{}, domain.Errorf(domain.KindDimensionMismatch, op, "scene vectors have length %d, song vectors %d", sd, td)
	}

	sim := SimilarityMatrix(scenes, songs)
	cost := make([][]float64, len(sim))
	for i, row := range sim {
		cost[i] = make([]float64, len(row))
		for j, s := range row {
			cost[i][j] = 1 - s
		}
	}

	pairs := make([]domain.Pair, 0, min(len(scenes), len(songs)))
	if len(scenes) <= len(songs) {
		for i, j := range hungarian(cost) {
			pairs = append(pairs, domain.Pair{Scene: i, Song: j, Similarity: sim[i][j]})
		}
	} else {
		for j, i := range hungarian(transpose(cost)) {
			pairs = append(pairs, domain.Pair{Scene: i, Song: j, Similarity: sim[i][j]})
		}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].Scene < pairs[b].Scene })

	total := 0.0
	for _, p := range pairs {
		total += p.Similarity
	}
	return Result{Pairs: pairs, Total: total, Matrix: sim}, nil
}

// SimilarityMatrix returns the cosine similarity of every scene/song pair.
// Vectors with zero norm score 0 against everything. All vectors must share
// one length.
func SimilarityMatrix(scenes, songs []domain.ConceptVector) [][]float64 {
	out := make([][]float64, len(scenes))
	for i := range out {
		out[i] = make([]float64, len(songs))
	}
	if len(scenes) == 0 || len(songs) == 0 || len(scenes[0]) == 0 {
		return out
	}
	a := normalizedRows(scenes)
	b := normalizedRows(songs)
	var m mat.Dense
	m.Mul(a, b.T())
	for i := range out {
		mat.Row(out[i], i, &m)
	}
	return out
}

func normalizedRows(vs []domain.ConceptVector) *mat.Dense {
	d := mat.NewDense(len(vs), len(vs[0]), nil)
	for i, v := range vs {
		n := 0.0
		for _, x := range v {
			n += x * x
		}
		if n == 0 {
			continue
		}
		n = math.Sqrt(n)
		for j, x := range v {
			d.Set(i, j, x/n)
		}
	}
	return d
}

func dimension(vs []domain.ConceptVector) (int, error) {
	d := len(vs[0])
	for i, v := range vs[1:] {
		if len(v) != d {
			return 0, fmt.Errorf("%d has length %d, want %d", i+1, len(v), d)
		}
	}
	return d, nil
}

// hungarian returns, for each row of an n×m cost matrix with n <= m, the
// column it is assigned to, minimizing total cost. O(n²m).
func hungarian(cost [][]float64) []int {
	n := len(cost)
	m := len(cost[0])
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1) // p[j]: row matched to column j, 1-based, 0 = free
	way := make([]int, m+1)
	minv := make([]float64, m+1)
	used := make([]bool, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rows := make([]int, n)
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			rows[p[j]-1] = j - 1
		}
	}
	return rows
}

func transpose(a [][]float64) [][]float64 {
	out := make([][]float64, len(a[0]))
	for j := range out {
		out[j] = make([]float64, len(a))
		for i := range a {
			out[j][i] = a[i][j]
		}
	}
	return out
}
