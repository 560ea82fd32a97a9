package goban

import (
	"fmt"
	"slices"
)

// Point is a board coordinate. It knows nothing about board extent.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

func (p Point) Up() Point    { return Point{X: p.X, Y: p.Y - 1} }
func (p Point) Down() Point  { return Point{X: p.X, Y: p.Y + 1} }
func (p Point) Left() Point  { return Point{X: p.X - 1, Y: p.Y} }
func (p Point) Right() Point { return Point{X: p.X + 1, Y: p.Y} }

// Around returns the four axis neighbours in the order up, down, left, right.
func (p Point) Around() [4]Point {
	return [4]Point{p.Up(), p.Down(), p.Left(), p.Right()}
}

// Compare orders points by X, then by Y.
func (p Point) Compare(q Point) int {
	switch {
	case p.X < q.X:
		return -1
	case p.X > q.X:
		return 1
	case p.Y < q.Y:
		return -1
	case p.Y > q.Y:
		return 1
	default:
		return 0
	}
}

func (p Point) Less(q Point) bool {
	return p.Compare(q) < 0
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

type PointSet map[Point]struct{}

func (s PointSet) Add(p Point) {
	s[p] = struct{}{}
}

func (s PointSet) Has(p Point) bool {
	_, ok := s[p]
	return ok
}

func (s PointSet) Len() int {
	return len(s)
}

// Union adds every member of other to s.
func (s PointSet) Union(other PointSet) {
	for p := range other {
		s[p] = struct{}{}
	}
}

// Sorted returns the members in point order.
func (s PointSet) Sorted() []Point {
	ps := make([]Point, 0, len(s))
	for p := range s {
		ps = append(ps, p)
	}
	slices.SortFunc(ps, Point.Compare)
	return ps
}
