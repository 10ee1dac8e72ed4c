package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"artistify/internal/assign"
	"artistify/internal/domain"
	"artistify/internal/service"
)

type fakeService struct {
	requests []service.Request
	err      error
}

func (f *fakeService) Generate(_ context.Context, req service.Request) (*service.Soundtrack, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	st := soundtrack()
	if req.Artist != "" {
		st.Artist = req.Artist
		st.Recommended = false
	}
	return st, nil
}

func soundtrack() *service.Soundtrack {
	return &service.Soundtrack{
		Artist:      "Artist A",
		Recommended: true,
		Scenes: []domain.Scene{
			{Index: 0, FirstSentence: 1, Sentences: []string{"The sun rose.", "Birds sang."}},
			{Index: 1, FirstSentence: 3, Sentences: []string{"Night fell over the ocean."}},
		},
		Tracks: []domain.Track{{Title: "Morning", Lyrics: "birds sang at dawn"}},
		Assignment: assign.Result{
			Pairs:  []domain.Pair{{Scene: 0, Song: 0, Similarity: 0.9}},
			Total:  0.9,
			Matrix: [][]float64{{0.9}, {0.1}},
		},
	}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func TestViewShowsCurrentScene(t *testing.T) {
	m := New(context.Background(), &fakeService{}, "story", soundtrack())
	if m.View() != "Loading..." {
		t.Fatal("view before sizing should be a placeholder")
	}
	m = sized(t, m)
	out := m.renderCurrentScene()
	if !strings.Contains(out, "Scene 1/2") || !strings.Contains(out, "Morning") {
		t.Fatalf("scene view:\n%s", out)
	}
	if !strings.Contains(m.View(), "Artist A (recommended)") {
		t.Fatalf("view:\n%s", m.View())
	}
}

func TestCursorWraps(t *testing.T) {
	m := sized(t, New(context.Background(), &fakeService{}, "story", soundtrack()))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.cursor != 1 || !strings.Contains(m.renderCurrentScene(), "no song assigned") {
		t.Fatalf("cursor = %d", m.cursor)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want wrap to 0", m.cursor)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if next.(Model).cursor != 1 {
		t.Fatal("up should wrap to the last scene")
	}
}

func TestEnterRegeneratesForArtist(t *testing.T) {
	svc := &fakeService{}
	m := sized(t, New(context.Background(), svc, "the story", soundtrack()))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Artist B")})
	m = next.(Model)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil || !m.busy {
		t.Fatal("enter should start a generation")
	}
	next, _ = m.Update(cmd())
	m = next.(Model)
	if len(svc.requests) != 1 || svc.requests[0].Artist != "Artist B" || svc.requests[0].Story != "the story" {
		t.Fatalf("requests = %+v", svc.requests)
	}
	if m.busy || m.soundtrack.Artist != "Artist B" || !strings.Contains(m.status, "Artist B") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestGenerateErrorKeepsSoundtrack(t *testing.T) {
	m := sized(t, New(context.Background(), &fakeService{err: errors.New("boom")}, "story", soundtrack()))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next, _ := m.Update(cmd())
	m = next.(Model)
	if !strings.Contains(m.status, "boom") || m.soundtrack == nil {
		t.Fatalf("status = %q", m.status)
	}
}

func TestHighlightBestSentence(t *testing.T) {
	out := highlightBestSentence([]string{"The sun rose.", "Birds sang."}, "birds sang")
	if !strings.HasPrefix(out, "The sun rose. ") {
		t.Fatalf("highlight = %q", out)
	}
	if highlightBestSentence([]string{"a b."}, "") != "a b." {
		t.Fatal("no lyrics should leave sentences untouched")
	}
	if highlightBestSentence(nil, "x") != "" {
		t.Fatal("no sentences should render empty")
	}
}
