// Package report renders soundtrack results as plain-text tables and JSON.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"artistify/internal/assign"
	"artistify/internal/domain"
	"artistify/internal/recommend"
	"artistify/internal/service"
)

const sceneTextWidth = 60

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, columns)
	for i := range header {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// Placements renders one row per scene with its assigned song.
func Placements(st *service.Soundtrack) string {
	var b strings.Builder
	how := "recommended"
	if !st.Recommended {
		how = "requested"
	}
	fmt.Fprintf(&b, "Artist: %s (%s)\n", st.Artist, how)
	if len(st.Candidates) > 1 {
		fmt.Fprintf(&b, "Other candidates: %s\n", strings.Join(st.Candidates[1:], ", "))
	}
	rows := make([][]string, 0, len(st.Scenes))
	for _, p := range st.Placements() {
		song, sim := "-", "-"
		if p.Track != nil {
			song = p.Track.Title
			sim = strconv.FormatFloat(p.Similarity, 'f', 4, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(p.Scene.Index + 1),
			strconv.Itoa(p.Scene.FirstSentence),
			truncate(sceneLabel(p.Scene), sceneTextWidth),
			song,
			sim,
		})
	}
	b.WriteString(renderTable(
		[]string{"Scene", "From", "Text", "Song", "Similarity"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight},
	))
	fmt.Fprintf(&b, "\nTotal similarity: %.4f\n", st.Assignment.Total)
	return b.String()
}

// Matrix renders the scene × song similarity matrix.
func Matrix(res assign.Result, songs []string) string {
	if len(res.Matrix) == 0 {
		return ""
	}
	headers := []string{"Scene"}
	aligns := []columnAlignment{alignRight}
	for j := range res.Matrix[0] {
		name := fmt.Sprintf("Song %d", j+1)
		if j < len(songs) {
			name = songs[j]
		}
		headers = append(headers, name)
		aligns = append(aligns, alignRight)
	}
	rows := make([][]string, len(res.Matrix))
	for i, row := range res.Matrix {
		r := []string{strconv.Itoa(i + 1)}
		for j, v := range row {
			cell := strconv.FormatFloat(v, 'f', 3, 64)
			if s, ok := res.SongFor(i); ok && s == j {
				cell = "*" + cell
			}
			r = append(r, cell)
		}
		rows[i] = r
	}
	return renderTable(headers, rows, aligns)
}

// Timings renders per-stage durations.
func Timings(t domain.StageTimings) string {
	stages := []struct {
		name string
		d    time.Duration
	}{
		{"scene split", t.SceneSplit},
		{"scene vectors", t.SceneVectors},
		{"story vector", t.StoryVector},
		{"recommendation", t.Recommendation},
		{"track retrieval", t.TrackRetrieval},
		{"lyrics cleaning", t.LyricsCleaning},
		{"track vectors", t.TrackVectors},
		{"assignment", t.Assignment},
	}
	rows := make([][]string, len(stages))
	for i, s := range stages {
		rows[i] = []string{s.name, s.d.Round(time.Microsecond).String()}
	}
	return renderTable([]string{"Stage", "Duration"}, rows, []columnAlignment{alignLeft, alignRight})
}

// Scenes renders a segmentation result.
func Scenes(scenes []domain.Scene) string {
	rows := make([][]string, len(scenes))
	for i, sc := range scenes {
		rows[i] = []string{strconv.Itoa(sc.Index + 1), strconv.Itoa(sc.FirstSentence), strconv.Itoa(sc.Len()), truncate(sc.Text, sceneTextWidth)}
	}
	return renderTable([]string{"Scene", "From", "Sentences", "Text"}, rows, []columnAlignment{alignRight, alignRight, alignRight, alignLeft})
}

// Vectors renders concept vectors with one row per topic and one column per
// vector.
func Vectors(topics []string, vecs []domain.ConceptVector) string {
	headers := []string{"Topic"}
	aligns := []columnAlignment{alignLeft}
	for i := range vecs {
		name := "Similarity"
		if len(vecs) > 1 {
			name = "S" + strconv.Itoa(i+1)
		}
		headers = append(headers, name)
		aligns = append(aligns, alignRight)
	}
	rows := make([][]string, len(topics))
	for t, topic := range topics {
		r := []string{topic}
		for _, v := range vecs {
			cell := ""
			if t < len(v) {
				cell = strconv.FormatFloat(v[t], 'f', 4, 64)
			}
			r = append(r, cell)
		}
		rows[t] = r
	}
	return renderTable(headers, rows, aligns)
}

// Pairs renders assignment pairs in scene order.
func Pairs(res assign.Result) string {
	rows := make([][]string, len(res.Pairs))
	for i, p := range res.Pairs {
		rows[i] = []string{strconv.Itoa(p.Scene), strconv.Itoa(p.Song), strconv.FormatFloat(p.Similarity, 'f', 4, 64)}
	}
	out := renderTable([]string{"Scene", "Song", "Similarity"}, rows, []columnAlignment{alignRight, alignRight, alignRight})
	return out + fmt.Sprintf("\nTotal similarity: %.4f\n", res.Total)
}

// Artists renders ranked artists.
func Artists(scores []recommend.ArtistScore) string {
	rows := make([][]string, len(scores))
	for i, s := range scores {
		rows[i] = []string{strconv.Itoa(i + 1), s.Artist, strconv.FormatFloat(s.Score, 'f', 4, 64)}
	}
	return renderTable([]string{"#", "Artist", "Score"}, rows, []columnAlignment{alignRight, alignLeft, alignRight})
}

func sceneLabel(sc domain.Scene) string {
	if sc.Summary != "" {
		return sc.Summary
	}
	return sc.Text
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
