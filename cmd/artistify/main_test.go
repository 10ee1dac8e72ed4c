package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"artistify/internal/config"
	"artistify/internal/report"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func isolate(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	return base
}

func TestAssignCommandJSON(t *testing.T) {
	base := isolate(t)
	scenes := writeFile(t, filepath.Join(base, "scenes.json"), `[[1,0,0],[0.9,0.1,0]]`)
	songs := writeFile(t, filepath.Join(base, "songs.json"), `[[1,0,0],[0,1,0],[0.8,0.2,0]]`)

	out, _, err := runCLI(t, "--config", filepath.Join(base, "missing.yaml"), "assign", scenes, songs, "--json")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	var res report.AssignmentJSON
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(res.Pairs) != 2 || res.Pairs[0].Song != 0 || res.Pairs[1].Song != 2 {
		t.Fatalf("pairs = %+v", res.Pairs)
	}
	if len(res.Matrix) != 2 || len(res.Matrix[0]) != 3 {
		t.Fatalf("matrix = %v", res.Matrix)
	}
}

func TestAssignCommandTable(t *testing.T) {
	base := isolate(t)
	scenes := writeFile(t, filepath.Join(base, "scenes.json"), `[[1,0],[0,1]]`)
	songs := writeFile(t, filepath.Join(base, "songs.json"), `[[0,1],[1,0]]`)
	out, _, err := runCLI(t, "-c", filepath.Join(base, "missing.yaml"), "assign", scenes, songs)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if !strings.Contains(out, "Total similarity: 2.0000") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestAssignCommandRejectsMismatch(t *testing.T) {
	base := isolate(t)
	scenes := writeFile(t, filepath.Join(base, "scenes.json"), `[[1,0]]`)
	songs := writeFile(t, filepath.Join(base, "songs.json"), `[[1,0,0]]`)
	if _, _, err := runCLI(t, "-c", filepath.Join(base, "missing.yaml"), "assign", scenes, songs); err == nil {
		t.Fatal("expected dimension mismatch")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	base := isolate(t)
	path := filepath.Join(base, "conf", "config.yaml")
	if _, _, err := runCLI(t, "config", "init", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Recommend.K != 5 {
		t.Fatalf("K = %d", cfg.Recommend.K)
	}
	out, _, err := runCLI(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "# "+path) || !strings.Contains(out, "similarity_threshold: 0.7") {
		t.Fatalf("show:\n%s", out)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	base := isolate(t)
	path := writeFile(t, filepath.Join(base, "config.yaml"), "vector_store:\n  type: redis\n")
	if _, _, err := runCLI(t, "--config", path, "config", "show"); err == nil {
		t.Fatal("expected validation error")
	}
}

const catalogCSV = `artist,track,lyrics,esa_vector
Artist A,Ocean Song,"Lyrics: the ocean waves and the sea","[0.9, 0.1]"
Artist A,Harbor,"Lyrics: ships in the harbor at sea","[0.8, 0.2]"
Artist B,City Lights,"Lyrics: city streets and traffic at night","[0.1, 0.9]"
Artist B,broken,,not-a-vector
`

func TestCatalogImportAndStats(t *testing.T) {
	base := isolate(t)
	csvPath := writeFile(t, filepath.Join(base, "catalog.csv"), catalogCSV)
	dbPath := filepath.Join(base, "catalog.db")
	cfgPath := filepath.Join(base, "missing.yaml")

	out, _, err := runCLI(t, "--config", cfgPath, "--log-level", "error", "catalog", "import", csvPath, dbPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 3 entries (1 skipped)") {
		t.Fatalf("import output: %q", out)
	}
	out, _, err = runCLI(t, "--config", cfgPath, "--log-level", "error", "catalog", "stats", dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Entries:   3", "Artists:   2", "Dimension: 2", "Snapshot:  (none)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
}

func TestSegmentHelpDescribesEmbedders(t *testing.T) {
	base := isolate(t)
	out, _, err := runCLI(t, "--config", filepath.Join(base, "missing.yaml"), "segment", "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, want := range []string{"tfidf embedder is fitted on the story", "allow_empty_key: true", "--threshold"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in help:\n%s", want, out)
		}
	}
}

func TestBadLogLevel(t *testing.T) {
	base := isolate(t)
	if _, _, err := runCLI(t, "--config", filepath.Join(base, "missing.yaml"), "--log-level", "loud", "config", "show"); err == nil {
		t.Fatal("expected log level error")
	}
}

const story = `The ocean waves crashed against the harbor wall. Ships rocked on the sea all morning. ` +
	`Sailors watched the ocean from the harbor. Later the city streets filled with traffic. ` +
	`Night fell and the city lights burned over the streets.`

func writeFixtures(t *testing.T, base string) string {
	t.Helper()
	corpus := writeFile(t, filepath.Join(base, "corpus.json"), `{"sea": "ocean wave sea ship harbor sailor", "city": "city street traffic light night"}`)
	cat := writeFile(t, filepath.Join(base, "catalog.csv"), catalogCSV)
	cfg := "concept_space:\n  corpus_path: " + corpus + "\ncatalog:\n  path: " + cat + "\nsegmenter:\n  similarity_threshold: 0.2\n  min_scene_length: 2\nlog:\n  level: error\n"
	return writeFile(t, filepath.Join(base, "config.yaml"), cfg)
}

func TestSoundtrackCommandJSON(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the full lemma dictionary")
	}
	base := isolate(t)
	cfg := writeFixtures(t, base)
	storyPath := writeFile(t, filepath.Join(base, "story.txt"), story)

	out, _, err := runCLI(t, "--config", cfg, "soundtrack", storyPath, "--json")
	if err != nil {
		t.Fatalf("soundtrack: %v", err)
	}
	var st report.SoundtrackJSON
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if st.Artist == "" || !st.Recommended || st.RunID == "" {
		t.Fatalf("soundtrack = %+v", st)
	}
	if len(st.Scenes) == 0 || len(st.Matrix) != len(st.Scenes) {
		t.Fatalf("scenes = %d matrix rows = %d", len(st.Scenes), len(st.Matrix))
	}
	seen := make(map[string]bool)
	for _, sc := range st.Scenes {
		if sc.Song != "" && seen[sc.Song] {
			t.Fatalf("song %q assigned twice", sc.Song)
		}
		seen[sc.Song] = true
	}
}

func TestSoundtrackCommandArtistOverride(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the full lemma dictionary")
	}
	base := isolate(t)
	cfg := writeFixtures(t, base)
	storyPath := writeFile(t, filepath.Join(base, "story.txt"), story)

	out, _, err := runCLI(t, "--config", cfg, "soundtrack", storyPath, "--artist", "artist b", "--matrix")
	if err != nil {
		t.Fatalf("soundtrack: %v", err)
	}
	if !strings.Contains(out, "(requested)") || !strings.Contains(out, "City Lights") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestSegmentAndVectorizeCommands(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the full lemma dictionary")
	}
	base := isolate(t)
	cfg := writeFixtures(t, base)
	storyPath := writeFile(t, filepath.Join(base, "story.txt"), story)

	out, _, err := runCLI(t, "--config", cfg, "segment", storyPath, "--threshold", "0", "--json")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	var scenes []report.SegmentJSON
	if err := json.Unmarshal([]byte(out), &scenes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(scenes) != 1 || len(scenes[0].Sentences) != 5 {
		t.Fatalf("threshold 0 should keep one scene: %+v", scenes)
	}

	out, _, err = runCLI(t, "--config", cfg, "vectorize", storyPath, "--sentences", "--json")
	if err != nil {
		t.Fatalf("vectorize: %v", err)
	}
	var vecs [][]float64
	if err := json.Unmarshal([]byte(out), &vecs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(vecs) != 5 || len(vecs[0]) != 2 {
		t.Fatalf("vectors = %v", vecs)
	}
	if vecs[0][0] <= vecs[0][1] {
		t.Fatalf("first sentence should lean to the sea topic: %v", vecs[0])
	}
}
