package lattice

import (
	"errors"
	"fmt"
)

// ErrSize reports a lattice side outside [1, MaxSize].
var ErrSize = errors.New("lattice: side length out of range")

// MaxSize is the largest side whose site count fits the index's int32
// positions.
const MaxSize = 46340

// Coord addresses a site by row I and column J.
type Coord struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Direction offsets in the order used by Neighbors: up, left, down, right.
var offsets = [4]Coord{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}

// Update describes one applied state change. Affected lists the site followed
// by its four neighbours: every coordinate whose activity classification the
// change may have altered.
type Update struct {
	Site     Coord
	Old, New Cell
	Affected [5]Coord
}

// Lattice is a square toroidal grid of cells stored in row-major order.
type Lattice struct {
	n     int
	cells []Cell
}

// New allocates an n*n lattice with every cell vacant.
func New(n int) (*Lattice, error) {
	if n <= 0 || n > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrSize, n)
	}
	return &Lattice{n: n, cells: make([]Cell, n*n)}, nil
}

// N returns the side length.
func (l *Lattice) N() int { return l.n }

// Area returns the number of sites.
func (l *Lattice) Area() int { return l.n * l.n }

// Cells exposes the backing slice in row-major order.
func (l *Lattice) Cells() []Cell { return l.cells }

// Wrap applies toroidal wrapping to the provided coordinates.
func (l *Lattice) Wrap(i, j int) Coord {
	i = (i%l.n + l.n) % l.n
	j = (j%l.n + l.n) % l.n
	return Coord{I: i, J: j}
}

// Index returns the linear slice index for c after wrapping.
func (l *Lattice) Index(c Coord) int {
	c = l.Wrap(c.I, c.J)
	return c.I*l.n + c.J
}

// CoordOf is the inverse of Index.
func (l *Lattice) CoordOf(idx int) Coord {
	return Coord{I: idx / l.n, J: idx % l.n}
}

// At returns the cell at c.
func (l *Lattice) At(c Coord) Cell { return l.cells[l.Index(c)] }

// Get returns the cell at (i, j).
func (l *Lattice) Get(i, j int) Cell { return l.At(Coord{I: i, J: j}) }

// Neighbors returns the four toroidal neighbours of c: up, left, down, right.
func (l *Lattice) Neighbors(c Coord) [4]Coord {
	var out [4]Coord
	for k, off := range offsets {
		out[k] = l.Wrap(c.I+off.I, c.J+off.J)
	}
	return out
}

// NeighborSum counts occupied neighbour edges of c. On lattices with side 1 or
// 2 the same site can sit on several edges and is counted once per edge.
func (l *Lattice) NeighborSum(c Coord) int {
	sum := 0
	for _, nb := range l.Neighbors(c) {
		if l.At(nb).Occupied() {
			sum++
		}
	}
	return sum
}

// Set writes v at c and reports the change.
func (l *Lattice) Set(c Coord, v Cell) Update {
	c = l.Wrap(c.I, c.J)
	idx := c.I*l.n + c.J
	u := Update{Site: c, Old: l.cells[idx], New: v}
	l.cells[idx] = v
	u.Affected[0] = c
	nbs := l.Neighbors(c)
	copy(u.Affected[1:], nbs[:])
	return u
}

// Clear fills the lattice with vacant cells.
func (l *Lattice) Clear() {
	for i := range l.cells {
		l.cells[i] = Vacant
	}
}

// Population counts occupied cells.
func (l *Lattice) Population() int {
	n := 0
	for _, c := range l.cells {
		if c.Occupied() {
			n++
		}
	}
	return n
}

// Count returns how many cells satisfy pred.
func (l *Lattice) Count(pred func(Cell) bool) int {
	n := 0
	for _, c := range l.cells {
		if pred(c) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (l *Lattice) Clone() *Lattice {
	return &Lattice{n: l.n, cells: append([]Cell(nil), l.cells...)}
}
