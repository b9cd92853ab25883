package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/samegame/internal/games/samegame"
	"github.com/vovakirdan/samegame/internal/games/samegame/core"
	"github.com/vovakirdan/samegame/internal/games/samegame/stages"
	"github.com/vovakirdan/samegame/internal/storage"
)

// bombRadius is the blast radius used by the radius bomb item.
const bombRadius = 2

// inputMode is what the next key press means on the board screen.
type inputMode int

const (
	modeTap         inputMode = iota // Enter taps the cursor cell
	modePickItem                     // Choosing an item from the list
	modeFirstTarget                  // Choosing the item's target cell
	modeSecondTarget                 // Choosing the second cell of a swap
	modePickColor                    // Choosing a color for a recolor
)

// GameOptions configures a board screen.
type GameOptions struct {
	Store             *storage.Store
	Logger            *log.Logger
	Seed              int64
	BoosterMultiplier float64
	Width             int
	Height            int
}

// Model is the Bubble Tea model for playing one stage.
type Model struct {
	session *samegame.Session
	stage   stages.Stage
	store   *storage.Store
	logger  *log.Logger
	keys    GameKeyMap
	help    help.Model
	palette []core.Color

	cursor      core.Pos
	mode        inputMode
	itemCursor  int
	item        core.Item
	first       core.Pos
	colorCursor int

	flash    string
	flashSeq int

	best     int   // Best recorded score for the stage
	finished bool  // The current end of the stage is recorded
	resultID int64 // Row of this run, 0 until first saved

	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewModel creates a board screen for stage. The board is built with opts.Seed.
func NewModel(stage stages.Stage, opts GameOptions) (Model, error) {
	board, err := stage.BoardWithSeed(opts.Seed)
	if err != nil {
		return Model{}, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sessionOpts := []samegame.Option{
		samegame.WithLogger(logger),
		samegame.WithSeed(opts.Seed),
		samegame.WithStageID(stage.ID),
		samegame.WithTarget(stage.Target),
		samegame.WithInventory(stage.Items),
	}
	if opts.BoosterMultiplier > 0 {
		sessionOpts = append(sessionOpts, samegame.WithBoosterMultiplier(opts.BoosterMultiplier))
	}

	palette := stage.Colors
	if len(palette) == 0 {
		palette = core.AllColors()
	}

	h := help.New()
	h.ShowAll = false

	var best int
	if opts.Store != nil {
		if best, err = opts.Store.HighScore(stage.ID); err != nil {
			logger.Warn("could not read high score", "stage", stage.ID, "error", err)
		}
	}

	return Model{
		session: samegame.NewSession(board, sessionOpts...),
		stage:   stage,
		store:   opts.Store,
		logger:  logger,
		keys:    DefaultGameKeyMap(),
		help:    h,
		palette: palette,
		best:    best,
		width:   opts.Width,
		height:  opts.Height,
	}, nil
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		m.session.Restart()
		m.mode = modeTap
		m.finished, m.resultID = false, 0
		cmd := m.setFlash("stage restarted")
		return m, cmd

	case key.Matches(msg, m.keys.Cancel):
		if m.mode != modeTap {
			m.mode = modeTap
			cmd := m.setFlash("cancelled")
			return m, cmd
		}
		m.goingBack = true
		return m, tea.Quit
	}

	switch m.mode {
	case modePickItem:
		return m.handleItemList(msg)
	case modePickColor:
		return m.handleColorPick(msg)
	default:
		return m.handleBoardKey(msg)
	}
}

// handleBoardKey moves the cursor and confirms taps or targets.
func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.session.Board()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampPos(m.cursor.Add(0, -1), b)
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampPos(m.cursor.Add(0, 1), b)
	case key.Matches(msg, m.keys.Left):
		m.cursor = clampPos(m.cursor.Add(-1, 0), b)
	case key.Matches(msg, m.keys.Right):
		m.cursor = clampPos(m.cursor.Add(1, 0), b)

	case key.Matches(msg, m.keys.Items):
		if m.mode == modeTap {
			m.mode = modePickItem
		}

	case key.Matches(msg, m.keys.Tap):
		switch m.mode {
		case modeFirstTarget:
			return m.confirmFirstTarget()
		case modeSecondTarget:
			return m.useItem(core.ItemRequest{Item: m.item, Target: m.first, Other: m.cursor})
		default:
			return m.tap()
		}
	}
	return m, nil
}

// tap plays the cursor cell.
func (m Model) tap() (tea.Model, tea.Cmd) {
	if m.session.Over() {
		cmd := m.setFlash("no moves left: r to restart, esc for stages")
		return m, cmd
	}
	out := m.session.Tap(m.cursor)
	var cmd tea.Cmd
	switch {
	case out.RemovedCount() > 0:
		cmd = m.setFlash(fmt.Sprintf("+%d (%d blocks)", out.Points, out.RemovedCount()))
	case out.Group.Len() < 2:
		cmd = m.setFlash("needs a group of two or more")
	default:
		cmd = m.setFlash("nothing in this group can be removed yet")
	}
	m.finishIfOver()
	return m, cmd
}

// handleItemList navigates the item picker.
func (m Model) handleItemList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := core.AllItems()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.itemCursor > 0 {
			m.itemCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.itemCursor < len(items)-1 {
			m.itemCursor++
		}
	case key.Matches(msg, m.keys.Items):
		m.itemCursor = (m.itemCursor + 1) % len(items)
	case key.Matches(msg, m.keys.Tap):
		item := items[m.itemCursor]
		if !m.session.Available(item) {
			cmd := m.setFlash(fmt.Sprintf("no %s left", item))
			return m, cmd
		}
		m.item = item
		switch item.Targets() {
		case 0:
			m.mode = modeTap
			return m.useItem(core.ItemRequest{Item: item})
		default:
			m.mode = modeFirstTarget
			cmd := m.setFlash(fmt.Sprintf("%s: pick a cell", item))
			return m, cmd
		}
	}
	return m, nil
}

// confirmFirstTarget records the first target and moves to the next step.
func (m Model) confirmFirstTarget() (tea.Model, tea.Cmd) {
	switch {
	case m.item.Targets() == 2:
		m.first = m.cursor
		m.mode = modeSecondTarget
		cmd := m.setFlash("pick the second cell")
		return m, cmd
	case m.item.NeedsColor():
		m.first = m.cursor
		m.mode = modePickColor
		return m, nil
	default:
		return m.useItem(core.ItemRequest{Item: m.item, Target: m.cursor, Radius: bombRadius})
	}
}

// handleColorPick chooses the recolor color.
func (m Model) handleColorPick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
		m.colorCursor = (m.colorCursor + len(m.palette) - 1) % len(m.palette)
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down):
		m.colorCursor = (m.colorCursor + 1) % len(m.palette)
	case key.Matches(msg, m.keys.Tap):
		return m.useItem(core.ItemRequest{Item: m.item, Target: m.first, Color: m.palette[m.colorCursor]})
	}
	return m, nil
}

// useItem applies an item and reports the outcome.
func (m Model) useItem(req core.ItemRequest) (tea.Model, tea.Cmd) {
	m.mode = modeTap
	res, err := m.session.UseItem(req)
	if err != nil {
		cmd := m.setFlash(err.Error())
		return m, cmd
	}
	cmd := m.setFlash(res.Message)
	m.finishIfOver()
	return m, cmd
}

// finishIfOver records the run each time the stage ends. The first end
// inserts a row; an end reached again after an item revived the board
// updates that row, so the stored run always has the final score.
func (m *Model) finishIfOver() {
	if !m.session.Over() {
		m.finished = false
		return
	}
	if m.finished {
		return
	}
	m.finished = true
	sum := m.session.Summary()
	m.best = max(m.best, sum.Score)
	if m.store == nil {
		return
	}

	r := storage.StageResult{
		ID:        m.resultID,
		StageID:   sum.StageID,
		Score:     sum.Score,
		Taps:      sum.Taps,
		ItemsUsed: sum.ItemsUsed,
		Cleared:   sum.Cleared,
		Remaining: sum.Remaining,
	}
	var err error
	if m.resultID == 0 {
		m.resultID, err = m.store.SaveResult(r)
	} else {
		err = m.store.UpdateResult(r)
	}
	if err != nil {
		m.logger.Warn("could not save result", "stage", sum.StageID, "error", err)
	}
}

// setFlash shows msg until it expires or is replaced.
func (m *Model) setFlash(msg string) tea.Cmd {
	m.flashSeq++
	m.flash = msg
	return flashCmd(m.flashSeq, flashDuration)
}

// clampPos keeps p on the board.
func clampPos(p core.Pos, b *core.Board) core.Pos {
	p.X = max(0, min(p.X, b.W-1))
	p.Y = max(0, min(p.Y, b.H-1))
	return p
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(m.stage.Name))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")

	b.WriteString(RenderBoard(m.session.Board(), m.boardView()))
	b.WriteString("\n")

	switch m.mode {
	case modePickItem:
		b.WriteString(m.renderItems())
	case modePickColor:
		b.WriteString(RenderColorSwatch(m.palette, m.colorCursor))
		b.WriteString("\n")
	}

	if m.session.Over() {
		b.WriteString(m.renderResult())
		b.WriteString("\n")
	}

	flashStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	b.WriteString(flashStyle.Render(m.flash))
	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderStatus draws the score line.
func (m Model) renderStatus() string {
	parts := []string{fmt.Sprintf("Score %d", m.session.Score())}
	if t := m.session.Target(); t > 0 {
		parts = append(parts, fmt.Sprintf("Target %d", t))
	}
	parts = append(parts, fmt.Sprintf("Taps %d", m.session.Taps()))
	if m.best > 0 {
		parts = append(parts, fmt.Sprintf("Best %d", m.best))
	}
	if m.session.Boosted() {
		parts = append(parts, fmt.Sprintf("x%.1f", m.session.Multiplier()))
	}
	if n := core.Preview(m.session.Board(), m.cursor); n > 0 && m.mode == modeTap {
		parts = append(parts, fmt.Sprintf("Tap: %d blocks", n))
	}
	return strings.Join(parts, "  |  ")
}

// boardView collects the highlights for the current mode.
func (m Model) boardView() BoardView {
	view := BoardView{Cursor: m.cursor, ShowCur: m.mode != modePickItem}
	if m.mode == modeTap {
		g := core.FindGroup(m.session.Board(), m.cursor)
		if core.GroupIsRemovable(g) {
			view.Highlight = make(map[core.Pos]bool, g.Len())
			for _, p := range g.Cells() {
				view.Highlight[p] = true
			}
		}
	}
	if m.mode == modeSecondTarget || m.mode == modePickColor {
		view.Marked = map[core.Pos]bool{m.first: true}
	}
	return view
}

// renderItems draws the item picker with remaining uses.
func (m Model) renderItems() string {
	var b strings.Builder
	for i, item := range core.AllItems() {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.itemCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		count := "∞"
		if n, limited := m.session.Remaining(item); limited {
			count = fmt.Sprintf("%d", n)
			if n == 0 {
				style = style.Foreground(lipgloss.Color("241"))
			}
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-16s %s", cursor, item, count)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderResult draws the end-of-stage banner.
func (m Model) renderResult() string {
	sum := m.session.Summary()
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	verdict := "STAGE OVER"
	if sum.Cleared {
		verdict = "BOARD CLEARED"
	}
	if sum.Passed {
		verdict += " - PASSED"
	} else {
		style = style.Foreground(lipgloss.Color("9"))
	}
	return style.Render(fmt.Sprintf("%s  score %d, %d blocks left", verdict, sum.Score, sum.Remaining))
}

// Session exposes the running session.
func (m Model) Session() *samegame.Session {
	return m.session
}

// IsGoingBack returns true if user wants to go back to the stage menu.
func (m Model) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program for one stage.
// Returns true if the user asked to go back to the stage menu.
func Run(stage stages.Stage, opts GameOptions) (goBack bool, err error) {
	model, err := NewModel(stage, opts)
	if err != nil {
		return false, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(Model)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
