package goban

import (
	"fmt"

	errs "goban/internal/errors"
)

// Outcome describes an applied move.
type Outcome struct {
	Point    Point
	Color    Color
	Captured []Point
	// Ko is the point forbidden for the next move, if any.
	Ko *Point
}

// Check returns nil if c may be played at p, or the rule the move breaks.
// The board is not modified.
func (b *Board) Check(p Point, c Color) error {
	if !c.IsStone() {
		return fmt.Errorf("%w: %v", errs.ErrNotStone, c)
	}
	switch b.At(p) {
	case Empty:
	case OffBoard:
		return fmt.Errorf("%w: %v", errs.ErrOffBoard, p)
	default:
		return fmt.Errorf("%w: %v", errs.ErrOccupied, p)
	}
	if b.ko != nil && *b.ko == p {
		return fmt.Errorf("%w: %v", errs.ErrKo, p)
	}

	sim := b.Clone()
	sim.set(p, c)
	if sim.Alive(p) {
		return nil
	}
	// A move without liberties is still legal when it takes the last
	// liberty of an adjacent enemy chain.
	for _, n := range p.Around() {
		if sim.At(n) == c.Opponent() && !sim.Alive(n) {
			return nil
		}
	}
	return fmt.Errorf("%w: %v at %v", errs.ErrSuicide, c, p)
}

func (b *Board) CanPut(p Point, c Color) bool {
	return b.Check(p, c) == nil
}

// Put plays c at p and returns the number of captured stones. An illegal
// move is rejected with the error from Check and leaves the board untouched.
func (b *Board) Put(p Point, c Color) (int, error) {
	if err := b.Check(p, c); err != nil {
		return 0, err
	}
	return b.place(p, c).Len(), nil
}

// Play is Put that also reports which stones were removed and the new ko point.
func (b *Board) Play(p Point, c Color) (Outcome, error) {
	if err := b.Check(p, c); err != nil {
		return Outcome{}, err
	}
	captured := b.place(p, c)
	out := Outcome{
		Point:    p,
		Color:    c,
		Captured: captured.Sorted(),
	}
	if ko, ok := b.Ko(); ok {
		out.Ko = &ko
	}
	return out, nil
}

// place applies an already validated move.
func (b *Board) place(p Point, c Color) PointSet {
	b.set(p, c)

	// Detection runs on the board with the new stone down and nothing removed yet.
	captured := make(PointSet)
	for _, n := range p.Around() {
		if b.At(n) == c.Opponent() && !captured.Has(n) && !b.Alive(n) {
			captured.Union(b.Chain(n))
		}
	}

	b.ko = nil
	if captured.Len() == 1 && b.Chain(p).Len() == 1 && !b.Alive(p) {
		for q := range captured {
			ko := q
			b.ko = &ko
		}
	}

	for q := range captured {
		b.set(q, Empty)
	}
	return captured
}
