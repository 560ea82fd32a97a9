package goban

import (
	"fmt"

	errs "goban/internal/errors"
)

const (
	MinSize = 1
	MaxSize = 25
)

// Board is an N×N Go board with simple-ko memory.
//
// A Board is not safe for concurrent use. CanPut and Check never mutate it,
// but callers running them alongside Put must hold their own lock.
type Board struct {
	size  int
	cells []Color
	ko    *Point
}

func NewBoard(size int) (*Board, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", errs.ErrBadSize, size, MinSize, MaxSize)
	}
	return &Board{
		size:  size,
		cells: make([]Color, size*size),
	}, nil
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < b.size && p.Y < b.size
}

// At returns the color at p, or OffBoard when p lies outside the grid.
func (b *Board) At(p Point) Color {
	if !b.InBounds(p) {
		return OffBoard
	}
	return b.cells[b.index(p)]
}

// set writes without rule checks. Writing outside the grid is a bug in the caller.
func (b *Board) set(p Point, c Color) {
	if !b.InBounds(p) {
		panic(fmt.Sprintf("goban: write to %v outside %dx%d board", p, b.size, b.size))
	}
	b.cells[b.index(p)] = c
}

func (b *Board) index(p Point) int {
	return p.Y*b.size + p.X
}

// Ko returns the point that may not be played on the next move.
func (b *Board) Ko() (Point, bool) {
	if b.ko == nil {
		return Point{}, false
	}
	return *b.ko, true
}

func (b *Board) Clone() *Board {
	c := &Board{
		size:  b.size,
		cells: make([]Color, len(b.cells)),
	}
	copy(c.cells, b.cells)
	if b.ko != nil {
		ko := *b.ko
		c.ko = &ko
	}
	return c
}

// Count returns the number of cells holding c.
func (b *Board) Count(c Color) int {
	n := 0
	for _, cell := range b.cells {
		if cell == c {
			n++
		}
	}
	return n
}
