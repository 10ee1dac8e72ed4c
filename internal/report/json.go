package report

import (
	"artistify/internal/assign"
	"artistify/internal/domain"
	"artistify/internal/service"
)

// SceneJSON is one scene of the JSON report.
type SceneJSON struct {
	Scene         int     `json:"scene"`
	FirstSentence int     `json:"first_sentence"`
	Text          string  `json:"scene_text"`
	Summary       string  `json:"summary,omitempty"`
	Song          string  `json:"assigned_song,omitempty"`
	Similarity    float64 `json:"similarity_to_song"`
}

// SoundtrackJSON is the machine-readable soundtrack report.
type SoundtrackJSON struct {
	RunID       string              `json:"run_id"`
	Artist      string              `json:"chosen_artist"`
	Recommended bool                `json:"recommended"`
	Candidates  []string            `json:"candidates,omitempty"`
	Snapshot    string              `json:"corpus_snapshot"`
	Scenes      []SceneJSON         `json:"scenes"`
	Total       float64             `json:"total_similarity"`
	Matrix      [][]float64         `json:"similarity_matrix"`
	Timings     domain.StageTimings `json:"performance_times"`
}

// JSON converts a soundtrack to its JSON report shape.
func JSON(st *service.Soundtrack) SoundtrackJSON {
	out := SoundtrackJSON{
		RunID:       st.RunID,
		Artist:      st.Artist,
		Recommended: st.Recommended,
		Candidates:  st.Candidates,
		Snapshot:    st.Snapshot,
		Total:       st.Assignment.Total,
		Matrix:      st.Assignment.Matrix,
		Timings:     st.Timings,
	}
	for _, p := range st.Placements() {
		s := SceneJSON{
			Scene:         p.Scene.Index + 1,
			FirstSentence: p.Scene.FirstSentence,
			Text:          p.Scene.Text,
			Summary:       p.Scene.Summary,
			Similarity:    p.Similarity,
		}
		if p.Track != nil {
			s.Song = p.Track.Title
		}
		out.Scenes = append(out.Scenes, s)
	}
	return out
}

// SegmentJSON is one scene of a segmentation result.
type SegmentJSON struct {
	Scene         int      `json:"scene"`
	FirstSentence int      `json:"first_sentence"`
	Sentences     []string `json:"sentences"`
	Text          string   `json:"text"`
}

// Segments converts scenes to their JSON shape.
func Segments(scenes []domain.Scene) []SegmentJSON {
	out := make([]SegmentJSON, len(scenes))
	for i, sc := range scenes {
		out[i] = SegmentJSON{Scene: sc.Index + 1, FirstSentence: sc.FirstSentence, Sentences: sc.Sentences, Text: sc.Text}
	}
	return out
}

// PairJSON is one matched (scene, song) pair, zero-based.
type PairJSON struct {
	Scene      int     `json:"scene"`
	Song       int     `json:"song"`
	Similarity float64 `json:"similarity"`
}

// AssignmentJSON is the JSON shape of an assignment result.
type AssignmentJSON struct {
	Pairs  []PairJSON  `json:"pairs"`
	Total  float64     `json:"total"`
	Matrix [][]float64 `json:"matrix"`
}

// Assignment converts an assignment result to its JSON shape.
func Assignment(res assign.Result) AssignmentJSON {
	out := AssignmentJSON{Pairs: make([]PairJSON, len(res.Pairs)), Total: res.Total, Matrix: res.Matrix}
	for i, p := range res.Pairs {
		out.Pairs[i] = PairJSON(p)
	}
	return out
}
