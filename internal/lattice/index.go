package lattice

import "fmt"

// InvariantError reports inconsistent bookkeeping. It is raised with panic;
// the engine turns it into an error for the run that hit it.
type InvariantError struct {
	Op    string
	Site  Coord
	Cause string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("lattice invariant violated: %s at (%d,%d): %s", e.Op, e.Site.I, e.Site.J, e.Cause)
}

// IntN draws uniform integers in [0, n).
type IntN interface {
	IntN(n int) int
}

// ActiveIndex tracks the sites eligible for the next event. Each entry carries
// a weight (occupied neighbour edges) and a pinned flag; an entry exists while
// it is pinned or has positive weight. All operations are O(1).
type ActiveIndex struct {
	n       int
	pos     []int32 // position in members, -1 when absent
	members []int32
	weight  []uint8
	pinned  []bool
}

// NewActiveIndex returns an empty index for an n*n lattice.
func NewActiveIndex(n int) *ActiveIndex {
	area := n * n
	x := &ActiveIndex{
		n:       n,
		pos:     make([]int32, area),
		members: make([]int32, 0, area),
		weight:  make([]uint8, area),
		pinned:  make([]bool, area),
	}
	for i := range x.pos {
		x.pos[i] = -1
	}
	return x
}

// Len returns the number of active sites.
func (x *ActiveIndex) Len() int { return len(x.members) }

func (x *ActiveIndex) slot(c Coord) int {
	if c.I < 0 || c.I >= x.n || c.J < 0 || c.J >= x.n {
		panic(&InvariantError{Op: "lookup", Site: c, Cause: "coordinate not wrapped"})
	}
	return c.I*x.n + c.J
}

func (x *ActiveIndex) coord(idx int32) Coord {
	return Coord{I: int(idx) / x.n, J: int(idx) % x.n}
}

// Contains reports whether c is active.
func (x *ActiveIndex) Contains(c Coord) bool { return x.pos[x.slot(c)] >= 0 }

// Weight returns the neighbour weight stored for c (0 when absent).
func (x *ActiveIndex) Weight(c Coord) int { return int(x.weight[x.slot(c)]) }

// Pinned reports whether c is held active on its own account.
func (x *ActiveIndex) Pinned(c Coord) bool { return x.pinned[x.slot(c)] }

// Sample returns a uniformly chosen active site.
func (x *ActiveIndex) Sample(r IntN) Coord {
	if len(x.members) == 0 {
		panic(&InvariantError{Op: "sample", Cause: "active set is empty"})
	}
	return x.coord(x.members[r.IntN(len(x.members))])
}

// Increment adds one neighbour edge to c, inserting it if needed.
func (x *ActiveIndex) Increment(c Coord) {
	i := x.slot(c)
	if x.weight[i] == 255 {
		panic(&InvariantError{Op: "increment", Site: c, Cause: "weight overflow"})
	}
	x.weight[i]++
	x.insert(i)
}

// Decrement removes one neighbour edge from c, dropping the entry when it is
// neither pinned nor weighted any more.
func (x *ActiveIndex) Decrement(c Coord) {
	i := x.slot(c)
	if x.pos[i] < 0 {
		panic(&InvariantError{Op: "decrement", Site: c, Cause: "site not in active set"})
	}
	if x.weight[i] == 0 {
		panic(&InvariantError{Op: "decrement", Site: c, Cause: "weight already zero"})
	}
	x.weight[i]--
	x.settle(i)
}

// Pin marks c active regardless of weight.
func (x *ActiveIndex) Pin(c Coord) {
	i := x.slot(c)
	if x.pinned[i] {
		panic(&InvariantError{Op: "pin", Site: c, Cause: "site already pinned"})
	}
	x.pinned[i] = true
	x.insert(i)
}

// Unpin releases a pin placed by Pin.
func (x *ActiveIndex) Unpin(c Coord) {
	i := x.slot(c)
	if !x.pinned[i] {
		panic(&InvariantError{Op: "unpin", Site: c, Cause: "site not pinned"})
	}
	x.pinned[i] = false
	x.settle(i)
}

// Clear empties the index.
func (x *ActiveIndex) Clear() {
	for _, m := range x.members {
		x.pos[m] = -1
	}
	x.members = x.members[:0]
	for i := range x.weight {
		x.weight[i] = 0
		x.pinned[i] = false
	}
}

// Members returns a copy of the active sites in internal order.
func (x *ActiveIndex) Members() []Coord {
	out := make([]Coord, len(x.members))
	for k, m := range x.members {
		out[k] = x.coord(m)
	}
	return out
}

func (x *ActiveIndex) insert(i int) {
	if x.pos[i] >= 0 {
		return
	}
	x.pos[i] = int32(len(x.members))
	x.members = append(x.members, int32(i))
}

func (x *ActiveIndex) settle(i int) {
	if x.pinned[i] || x.weight[i] > 0 {
		return
	}
	// Swap-remove keeps removal O(1).
	p := x.pos[i]
	last := x.members[len(x.members)-1]
	x.members[p] = last
	x.pos[last] = p
	x.members = x.members[:len(x.members)-1]
	x.pos[i] = -1
}
