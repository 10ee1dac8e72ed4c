package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"artistify/internal/service"
)

// SoundtrackPort is the TUI-facing subset of the soundtrack service.
type SoundtrackPort interface {
	Generate(ctx context.Context, req service.Request) (*service.Soundtrack, error)
}

// Model is the Bubble Tea model browsing one story's soundtrack.
type Model struct {
	ctx        context.Context
	service    SoundtrackPort
	story      string
	input      textinput.Model
	viewport   viewport.Model
	soundtrack *service.Soundtrack
	placements []service.Placement
	status     string
	cursor     int
	ready      bool
	busy       bool
}

type generatedMsg struct {
	soundtrack *service.Soundtrack
	err        error
	artist     string
}

// New creates a TUI model over an already generated soundtrack. Entering an
// artist name regenerates the soundtrack for that artist; an empty entry
// goes back to the recommendation.
func New(ctx context.Context, svc SoundtrackPort, story string, st *service.Soundtrack) Model {
	ti := textinput.New()
	ti.Prompt = "artist> "
	ti.Placeholder = "Type an artist and press Enter (empty = recommended)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{ctx: ctx, service: svc, story: story, input: ti, viewport: vp}
	m.setSoundtrack(st)
	m.status = "Loaded. Up/Down to browse scenes."
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := sceneBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + artist line, status, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentScene())
		return m, nil
	case generatedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.setSoundtrack(msg.soundtrack)
		m.status = fmt.Sprintf("Soundtrack by %s", msg.soundtrack.Artist)
		m.viewport.SetContent(m.renderCurrentScene())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			artist := strings.TrimSpace(m.input.Value())
			m.busy = true
			if artist == "" {
				m.status = "Generating with recommended artist..."
			} else {
				m.status = fmt.Sprintf("Generating for %q...", artist)
			}
			return m, m.generate(artist)
		case "down":
			if len(m.placements) > 0 {
				m.cursor = (m.cursor + 1) % len(m.placements)
				m.viewport.SetContent(m.renderCurrentScene())
				return m, nil
			}
		case "up":
			if len(m.placements) > 0 {
				m.cursor = (m.cursor - 1 + len(m.placements)) % len(m.placements)
				m.viewport.SetContent(m.renderCurrentScene())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) generate(artist string) tea.Cmd {
	svc, ctx, story := m.service, m.ctx, m.story
	return func() tea.Msg {
		st, err := svc.Generate(ctx, service.Request{Story: story, Artist: artist})
		return generatedMsg{soundtrack: st, err: err, artist: artist}
	}
}

func (m *Model) setSoundtrack(st *service.Soundtrack) {
	m.soundtrack = st
	m.placements = nil
	if st != nil {
		m.placements = st.Placements()
	}
	m.cursor = 0
}

// View renders the TUI layout and current scene.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Artistify")
	artist := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.artistLine())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	scene := sceneBoxStyle.Render(m.viewport.View())
	return header + "\n" + artist + "\n" + scene + "\n" + input + "\n" + status
}

func (m Model) artistLine() string {
	if m.soundtrack == nil {
		return ""
	}
	how := "requested"
	if m.soundtrack.Recommended {
		how = "recommended"
	}
	return fmt.Sprintf("%s (%s)  total similarity %.3f", m.soundtrack.Artist, how, m.soundtrack.Assignment.Total)
}

func (m Model) renderCurrentScene() string {
	if len(m.placements) == 0 {
		return "No scenes."
	}
	p := m.placements[m.cursor]
	title := fmt.Sprintf("Scene %d/%d  (from sentence %d)", m.cursor+1, len(m.placements), p.Scene.FirstSentence)
	song := "no song assigned"
	lyrics := ""
	if p.Track != nil {
		song = fmt.Sprintf("%s  similarity=%.3f", songStyle.Render(p.Track.Title), p.Similarity)
		lyrics = p.Track.Lyrics
	}
	body := highlightBestSentence(p.Scene.Sentences, lyrics)
	return title + "\n" + song + "\n\n" + body
}

var (
	sceneBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	songStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
)

// highlightBestSentence marks the scene sentence sharing the most words with
// the assigned song's lyrics.
func highlightBestSentence(sentences []string, lyrics string) string {
	if len(sentences) == 0 {
		return ""
	}
	out := make([]string, len(sentences))
	lTokens := toTokenSet(lyrics)
	bestIdx, bestScore := -1, 0
	for i, s := range sentences {
		out[i] = strings.TrimSpace(s)
		if score := tokenOverlapScore(lTokens, s); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		out[bestIdx] = highlightStyle.Render(out[bestIdx])
	}
	return strings.Join(out, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(tokens map[string]struct{}, sentence string) int {
	score := 0
	words := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(words))
	for _, t := range words {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := tokens[t]; ok {
			score++
		}
	}
	return score
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
