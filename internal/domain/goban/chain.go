package goban

// Chain returns every point of the maximal 4-connected group that shares the
// color of p. The result is empty when p is empty or off the board.
func (b *Board) Chain(p Point) PointSet {
	chain := make(PointSet)
	color := b.At(p)
	if !color.IsStone() {
		return chain
	}

	stack := []Point{p}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if chain.Has(cur) || b.At(cur) != color {
			continue
		}
		chain.Add(cur)
		for _, n := range cur.Around() {
			if !chain.Has(n) && b.At(n) == color {
				stack = append(stack, n)
			}
		}
	}
	return chain
}

// Alive reports whether the chain at p touches at least one empty point.
// An empty or off-board point is never alive.
func (b *Board) Alive(p Point) bool {
	for member := range b.Chain(p) {
		for _, n := range member.Around() {
			if b.At(n) == Empty {
				return true
			}
		}
	}
	return false
}

// Liberties returns the empty points adjacent to the chain at p.
func (b *Board) Liberties(p Point) PointSet {
	libs := make(PointSet)
	for member := range b.Chain(p) {
		for _, n := range member.Around() {
			if b.At(n) == Empty {
				libs.Add(n)
			}
		}
	}
	return libs
}
