package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/samegame/internal/games/samegame/stages"
	"github.com/vovakirdan/samegame/internal/storage"
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuPaneStyle   = lipgloss.NewStyle().Padding(0, 2)
)

// MenuItem is one stage in the picker, with its recorded best.
type MenuItem struct {
	Stage     stages.Stage
	HighScore int
	Cleared   bool
}

// label renders the picker line for the item.
func (it MenuItem) label(active bool) string {
	mark := " "
	if it.Cleared {
		mark = "✓"
	}
	best := "-"
	if it.HighScore > 0 {
		best = fmt.Sprint(it.HighScore)
	}
	line := fmt.Sprintf("%s %-22s %6s", mark, it.Stage.Name, best)
	if active {
		return menuActiveStyle.Render("> " + line)
	}
	return "  " + line
}

// describe summarizes the stage rules for the info line.
func (it MenuItem) describe() string {
	s := it.Stage
	parts := []string{fmt.Sprintf("%dx%d", s.Width, s.Height)}
	if n := len(s.Colors); n > 0 {
		parts = append(parts, fmt.Sprintf("%d colors", n))
	}
	if s.Target > 0 {
		parts = append(parts, fmt.Sprintf("target %d", s.Target))
	}
	if s.HasInventory() {
		uses := 0
		for _, n := range s.Items {
			uses += n
		}
		parts = append(parts, fmt.Sprintf("%d item uses", uses))
	}
	if d := s.Metadata["difficulty"]; d != "" {
		parts = append(parts, d)
	}
	return strings.Join(parts, ", ")
}

// MenuModel is the stage picker. It shows a preview of the starting board
// next to the list when the terminal is wide enough.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper

	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates a stage picker. random, when it has an ID, is listed last.
// Best scores come from store when it is not nil.
func NewMenuModel(list []stages.Stage, random stages.Stage, store *storage.Store) MenuModel {
	items := make([]MenuItem, 0, len(list)+1)
	for _, s := range list {
		items = append(items, MenuItem{Stage: s})
	}
	if random.ID != "" {
		items = append(items, MenuItem{Stage: random})
	}

	for i := range items {
		if store == nil {
			break
		}
		if stats, err := store.Stats(items[i].Stage.ID); err == nil {
			items[i].HighScore = stats.HighScore
			items[i].Cleared = stats.Clears > 0
		}
	}

	return MenuModel{
		items:     items,
		width:     80,
		height:    24,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionQuit, MenuActionBack:
			m.quitting = true
			return m, tea.Quit
		case MenuActionUp:
			m.cursor = max(m.cursor-1, 0)
		case MenuActionDown:
			m.cursor = min(m.cursor+1, max(len(m.items)-1, 0))
		case MenuActionSelect:
			if len(m.items) > 0 {
				item := m.items[m.cursor]
				m.selected = &item
				return m, tea.Quit
			}
		case MenuActionScoreboard:
			m.openScoreboard = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("S A M E G A M E"), m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(menuDimStyle.Render("No stages found"), m.width))
		b.WriteString("\n")
		return b.String()
	}

	lines := make([]string, 0, len(m.items)+1)
	lines = append(lines, menuDimStyle.Render(fmt.Sprintf("  %-24s %6s", "Stage", "Best")))
	for i, it := range m.items {
		lines = append(lines, it.label(i == m.cursor))
	}
	list := menuPaneStyle.Render(strings.Join(lines, "\n"))

	body := list
	if preview := m.preview(); preview != "" &&
		lipgloss.Width(list)+lipgloss.Width(preview) <= m.width {
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, preview)
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body))
	b.WriteString("\n\n")
	b.WriteString(centerText(menuDimStyle.Render(m.items[m.cursor].describe()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("↑/↓ choose  enter play  tab scores  q quit", m.width))
	b.WriteString("\n")
	return b.String()
}

// preview renders the starting board of the highlighted stage, or "" if it
// cannot be built.
func (m MenuModel) preview() string {
	s := m.items[m.cursor].Stage
	board, err := s.NewBoard()
	if err != nil {
		return ""
	}
	return menuPaneStyle.Render(RenderBoard(board, BoardView{}))
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Size returns the last known terminal size.
func (m MenuModel) Size() (width, height int) {
	return m.width, m.height
}

// MenuResult is what the picker ended with.
type MenuResult struct {
	Stage           stages.Stage
	Width           int
	Height          int
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the stage picker until the player picks, opens scores or quits.
func RunMenu(list []stages.Stage, random stages.Stage, store *storage.Store) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(list, random, store), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Quit: true}, nil
	}

	res := MenuResult{WantsScoreboard: m.WantsScoreboard()}
	res.Width, res.Height = m.Size()
	switch {
	case res.WantsScoreboard:
	case m.IsQuitting() || m.Selected() == nil:
		res.Quit = true
	default:
		res.Stage = m.Selected().Stage
	}
	return res, nil
}
