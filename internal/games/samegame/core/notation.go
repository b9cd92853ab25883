package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Board text notation, one row per line, cells separated by whitespace:
//
//	.     empty
//	#     rock
//	@     anchor
//	R     normal (color letters R G B Y P O)
//	R*    ice level 1
//	R**   ice level 2
//	R+3   counter, removable when its group has at least 3 cells
//	R-3   counter, removable when its group has at most 3 cells
//	R*+3  ice-wrapped counter (also R*-3)

// ParseBlock parses a single cell token. ok is false for an empty cell.
func ParseBlock(token string) (blk Block, ok bool, err error) {
	switch token {
	case ".":
		return Block{}, false, nil
	case "#":
		return NewKindBlock(ColorRed, KindRock, 0), true, nil
	case "@":
		return NewKindBlock(ColorRed, KindAnchor, 0), true, nil
	case "":
		return Block{}, false, fmt.Errorf("empty token")
	}

	color, known := ParseColor(token[:1])
	if !known {
		return Block{}, false, fmt.Errorf("unknown color in token %q", token)
	}
	rest := token[1:]

	iced := 0
	for strings.HasPrefix(rest, "*") {
		iced++
		rest = rest[1:]
	}

	if rest == "" {
		switch iced {
		case 0:
			return NewBlock(color), true, nil
		case 1:
			return NewKindBlock(color, KindIce1, 0), true, nil
		case 2:
			return NewKindBlock(color, KindIce2, 0), true, nil
		default:
			return Block{}, false, fmt.Errorf("too many ice levels in token %q", token)
		}
	}

	if iced > 1 {
		return Block{}, false, fmt.Errorf("counter blocks carry at most one ice layer: %q", token)
	}
	n, convErr := strconv.Atoi(rest[1:])
	if convErr != nil || n < 1 {
		return Block{}, false, fmt.Errorf("bad counter threshold in token %q", token)
	}

	var kind Kind
	switch rest[0] {
	case '+':
		kind = KindCounterAtLeast
		if iced == 1 {
			kind = KindIceCounterAtLeast
		}
	case '-':
		kind = KindCounterAtMost
		if iced == 1 {
			kind = KindIceCounterAtMost
		}
	default:
		return Block{}, false, fmt.Errorf("unknown suffix in token %q", token)
	}
	return NewKindBlock(color, kind, n), true, nil
}

// FormatBlock returns the notation token for blk (nil is empty).
func FormatBlock(blk *Block) string {
	if blk == nil {
		return "."
	}
	c := string(blk.Color.Char())
	switch blk.Kind {
	case KindNormal:
		return c
	case KindIce1:
		return c + "*"
	case KindIce2:
		return c + "**"
	case KindCounterAtLeast:
		return fmt.Sprintf("%s+%d", c, blk.Threshold)
	case KindCounterAtMost:
		return fmt.Sprintf("%s-%d", c, blk.Threshold)
	case KindIceCounterAtLeast:
		return fmt.Sprintf("%s*+%d", c, blk.Threshold)
	case KindIceCounterAtMost:
		return fmt.Sprintf("%s*-%d", c, blk.Threshold)
	case KindRock:
		return "#"
	case KindAnchor:
		return "@"
	default:
		return "?"
	}
}

// ParseBoard builds a board from rows in the text notation.
// All rows must have the same number of cells.
func ParseBoard(rows []string) (*Board, error) {
	if len(rows) == 0 {
		return NewBoard(0, 0), nil
	}

	grid := make([][]string, len(rows))
	for y, row := range rows {
		grid[y] = strings.Fields(row)
		if len(grid[y]) != len(grid[0]) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", y, len(grid[y]), len(grid[0]))
		}
	}

	b := NewBoard(len(grid[0]), len(grid))
	for y, tokens := range grid {
		for x, token := range tokens {
			blk, ok, err := ParseBlock(token)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", y, x, err)
			}
			if ok {
				b.Put(P(x, y), blk)
			}
		}
	}
	return b, nil
}

// MustParseBoard is ParseBoard for fixtures; it panics on malformed input.
func MustParseBoard(rows ...string) *Board {
	b, err := ParseBoard(rows)
	if err != nil {
		panic(err)
	}
	return b
}

// Rows returns the board in the text notation, one string per row.
func (b *Board) Rows() []string {
	rows := make([]string, b.H)
	tokens := make([]string, b.W)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			tokens[x] = FormatBlock(b.At(P(x, y)))
		}
		rows[y] = strings.Join(tokens, " ")
	}
	return rows
}

// String returns the board in the text notation.
func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n")
}
