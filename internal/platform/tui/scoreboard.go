package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/samegame/internal/games/samegame/stages"
	"github.com/vovakirdan/samegame/internal/storage"
)

// maxResults caps the rows loaded per stage.
const maxResults = 100

var (
	scoresTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	scoresTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	scoresActiveTab  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	scoresStatsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	scoresFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	scoresEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 2)
	scoresHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type scoreboardKeys struct {
	Scroll key.Binding
	Stage  key.Binding
	Back   key.Binding
	Quit   key.Binding

	up, down, next, prev key.Binding
}

func (k scoreboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Stage, k.Back, k.Quit}
}

func (k scoreboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newScoreboardKeys() scoreboardKeys {
	return scoreboardKeys{
		Scroll: key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll")),
		Stage:  key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→/tab", "stage")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		up:   key.NewBinding(key.WithKeys("up", "k")),
		down: key.NewBinding(key.WithKeys("down", "j")),
		next: key.NewBinding(key.WithKeys("right", "l", "tab")),
		prev: key.NewBinding(key.WithKeys("left", "h", "shift+tab")),
	}
}

// ScoreboardEntry is one stage listed on the scoreboard.
type ScoreboardEntry struct {
	ID   string
	Name string
}

// ScoreboardEntries lists the stages plus the random board.
func ScoreboardEntries(list []stages.Stage) []ScoreboardEntry {
	entries := make([]ScoreboardEntry, 0, len(list)+1)
	for _, s := range list {
		entries = append(entries, ScoreboardEntry{ID: s.ID, Name: s.Name})
	}
	return append(entries, ScoreboardEntry{ID: stages.RandomStageID, Name: "Random boards"})
}

// ScoreboardModel shows the recorded runs of one stage at a time, best first.
type ScoreboardModel struct {
	entries []ScoreboardEntry
	cursor  int
	store   *storage.Store
	results []storage.StageResult
	stats   *storage.StageStats
	table   table.Model
	help    help.Model
	keys    scoreboardKeys
	width   int
	height  int

	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard opened on the first entry.
func NewScoreboardModel(store *storage.Store, entries []ScoreboardEntry, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		entries: entries,
		store:   store,
		help:    help.New(),
		keys:    newScoreboardKeys(),
		width:   width,
		height:  height,
	}
	m.table = newResultsTable(height)
	m.load()
	return m
}

// newResultsTable builds the results table sized to the terminal height.
func newResultsTable(height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Score", Width: 8},
			{Title: "Taps", Width: 5},
			{Title: "Items", Width: 5},
			{Title: "Left", Width: 6},
			{Title: "Date", Width: 13},
		}),
		table.WithFocused(true),
		table.WithHeight(max(height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)
	return t
}

// load reads results and stats for the selected stage.
func (m *ScoreboardModel) load() {
	m.results, m.stats = nil, nil
	if m.store != nil && len(m.entries) > 0 {
		id := m.entries[m.cursor].ID
		if results, err := m.store.TopScores(id, maxResults); err == nil {
			m.results = results
		}
		if stats, err := m.store.Stats(id); err == nil {
			m.stats = stats
		}
	}

	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		left := fmt.Sprint(r.Remaining)
		if r.Cleared {
			left = "clear"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprint(r.Score),
			fmt.Sprint(r.Taps),
			fmt.Sprint(r.ItemsUsed),
			left,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// step moves the stage cursor by delta, wrapping around.
func (m *ScoreboardModel) step(delta int) {
	if len(m.entries) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.entries)) % len(m.entries)
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.next):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.prev):
			m.step(-1)
			return m, nil
		case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(m.height-10, 3))
	}
	return m, nil
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	title := "BEST RUNS"
	if len(m.entries) > 0 {
		title += " - " + m.entries[m.cursor].Name
	}
	b.WriteString(scoresTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n\n")

	if m.stats != nil && m.stats.Runs > 0 {
		line := fmt.Sprintf("Runs %d | Clears %d | Best %d | Avg %.1f",
			m.stats.Runs, m.stats.Clears, m.stats.HighScore, m.stats.AvgScore)
		if !m.stats.LastPlayed.IsZero() {
			line += " | Last " + m.stats.LastPlayed.Format("Jan 02 15:04")
		}
		b.WriteString(centerText(scoresStatsStyle.Render(line), m.width))
		b.WriteString("\n")
	}

	body := scoresEmptyStyle.Render("No runs recorded yet.")
	if len(m.results) > 0 {
		body = m.table.View()
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, scoresFrameStyle.Render(body)))
	b.WriteString("\n")
	b.WriteString(scoresHelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// tabs renders the stage names, or only the current one when they do not fit.
func (m ScoreboardModel) tabs() string {
	if len(m.entries) == 0 {
		return ""
	}
	tabs := make([]string, len(m.entries))
	for i, e := range m.entries {
		if i == m.cursor {
			tabs[i] = scoresActiveTab.Render(e.Name)
		} else {
			tabs[i] = scoresTabStyle.Render(e.Name)
		}
	}
	line := strings.Join(tabs, "")
	if lipgloss.Width(line) > m.width-4 {
		line = fmt.Sprintf("< %s >", m.entries[m.cursor].Name)
	}
	return line
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, entries []ScoreboardEntry, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, entries, width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
