package goban

import (
	"fmt"
	"strings"

	errs "goban/internal/errors"
)

type Color int

const (
	Empty Color = iota
	Black
	White
	// OffBoard is what At returns outside the grid. It is never stored.
	OffBoard
)

func (c Color) String() string {
	switch c {
	case Empty:
		return "empty"
	case Black:
		return "black"
	case White:
		return "white"
	case OffBoard:
		return "off_board"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// IsStone reports whether c is black or white.
func (c Color) IsStone() bool {
	return c == Black || c == White
}

// Opponent returns the other stone color. Non-stone colors map to themselves.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return c
	}
}

// ParseColor accepts the short and long color names used in move requests.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "black":
		return Black, nil
	case "w", "white":
		return White, nil
	default:
		return Empty, fmt.Errorf("%w: %q", errs.ErrInvalidColor, s)
	}
}
