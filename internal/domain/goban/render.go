package goban

import (
	"fmt"
	"strings"

	errs "goban/internal/errors"
)

const (
	glyphEmpty = '.'
	glyphBlack = 'x'
	glyphWhite = 'o'
)

func glyph(c Color) byte {
	switch c {
	case Empty:
		return glyphEmpty
	case Black:
		return glyphBlack
	case White:
		return glyphWhite
	default:
		// off_board inside the grid means the board is corrupt
		panic(fmt.Sprintf("goban: cannot render %v", c))
	}
}

// Rows renders the board one string per row, top row first.
func (b *Board) Rows() []string {
	rows := make([]string, b.size)
	line := make([]byte, b.size)
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			line[x] = glyph(b.cells[y*b.size+x])
		}
		rows[y] = string(line)
	}
	return rows
}

// String renders the board with '.' for empty, 'x' for black and 'o' for
// white, one newline-terminated line per row.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(b.size * (b.size + 1))
	for _, row := range b.Rows() {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Parse reads the format produced by String. Blank lines are ignored.
func Parse(text string) (*Board, error) {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			rows = append(rows, line)
		}
	}
	return Restore(rows, nil)
}

// Restore rebuilds a board from rendered rows and an optional ko point.
func Restore(rows []string, ko *Point) (*Board, error) {
	b, err := NewBoard(len(rows))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrBadPosition, err)
	}

	for y, row := range rows {
		if len(row) != b.size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", errs.ErrBadPosition, y, len(row), b.size)
		}
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case glyphEmpty:
			case glyphBlack:
				b.set(Pt(x, y), Black)
			case glyphWhite:
				b.set(Pt(x, y), White)
			default:
				return nil, fmt.Errorf("%w: unexpected %q at %v", errs.ErrBadPosition, row[x], Pt(x, y))
			}
		}
	}

	if ko != nil {
		if b.At(*ko) != Empty {
			return nil, fmt.Errorf("%w: ko point %v is not an empty cell", errs.ErrBadPosition, *ko)
		}
		k := *ko
		b.ko = &k
	}
	return b, nil
}
