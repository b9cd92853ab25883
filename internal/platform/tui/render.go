package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/samegame/internal/games/samegame/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBlue:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorPurple: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorOrange: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
}

var (
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	rockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	anchorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	boardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// cellWidth is the number of terminal columns per board cell.
const cellWidth = 3

// cellGlyph returns the cellWidth-wide text for a block.
func cellGlyph(blk *core.Block) string {
	if blk == nil {
		return " · "
	}
	n := blk.Threshold
	if n > 9 {
		n = 9
	}
	switch blk.Kind {
	case core.KindNormal:
		return " ● "
	case core.KindIce1:
		return "(●)"
	case core.KindIce2:
		return "[●]"
	case core.KindCounterAtLeast:
		return fmt.Sprintf(" +%d", n)
	case core.KindCounterAtMost:
		return fmt.Sprintf(" -%d", n)
	case core.KindIceCounterAtLeast:
		return fmt.Sprintf("(+%d", n)
	case core.KindIceCounterAtMost:
		return fmt.Sprintf("(-%d", n)
	case core.KindRock:
		return " # "
	case core.KindAnchor:
		return " @ "
	default:
		return " ? "
	}
}

// cellStyle returns the base style for a block.
func cellStyle(blk *core.Block) lipgloss.Style {
	if blk == nil {
		return emptyStyle
	}
	switch blk.Kind {
	case core.KindRock:
		return rockStyle
	case core.KindAnchor:
		return anchorStyle
	}
	if style, ok := colorStyles[blk.Color]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// BoardView carries what the board renderer highlights.
type BoardView struct {
	Cursor    core.Pos
	ShowCur   bool
	Highlight map[core.Pos]bool // Cells the current tap would affect
	Marked    map[core.Pos]bool // Cells picked as item targets
}

// RenderBoard draws the board inside a border.
// Runs of cells with the same style are not merged so that highlights stay per cell.
func RenderBoard(b *core.Board, view BoardView) string {
	var sb strings.Builder
	sb.Grow(b.W*b.H*cellWidth*4 + b.H)

	for y := 0; y < b.H; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < b.W; x++ {
			p := core.P(x, y)
			blk := b.At(p)
			style := cellStyle(blk)
			if view.Highlight[p] {
				style = style.Underline(true)
			}
			if view.Marked[p] {
				style = style.Background(lipgloss.Color("58"))
			}
			if view.ShowCur && p == view.Cursor {
				style = style.Reverse(true)
			}
			sb.WriteString(style.Render(cellGlyph(blk)))
		}
	}
	return boardStyle.Render(sb.String())
}

// RenderColorSwatch draws a palette choice with the selected color marked.
func RenderColorSwatch(colors []core.Color, selected int) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		label := fmt.Sprintf(" %s ", c)
		style, ok := colorStyles[c]
		if !ok {
			style = lipgloss.NewStyle()
		}
		if i == selected {
			style = style.Reverse(true)
		}
		parts[i] = style.Render(label)
	}
	return strings.Join(parts, " ")
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
