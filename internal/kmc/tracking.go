package kmc

import "mad-kmc/internal/lattice"

// track brings the active index in line with one applied update.
func (e *Engine) track(u lattice.Update) {
	if e.eligible != nil {
		was, now := e.eligible(u.Old), e.eligible(u.New)
		switch {
		case !was && now:
			e.idx.Pin(u.Site)
		case was && !now:
			e.idx.Unpin(u.Site)
		}
		return
	}

	was, now := u.Old.Occupied(), u.New.Occupied()
	if was == now {
		// Label-only change.
		return
	}
	if now {
		e.idx.Pin(u.Site)
		for _, nb := range u.Affected[1:] {
			e.idx.Increment(nb)
		}
		return
	}
	for _, nb := range u.Affected[1:] {
		e.idx.Decrement(nb)
	}
	e.idx.Unpin(u.Site)
}

// rebuild recomputes the index from scratch in row-major order.
func (e *Engine) rebuild() {
	e.idx.Clear()
	e.populate(e.idx)
}

func (e *Engine) populate(idx *lattice.ActiveIndex) {
	n := e.lat.N()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := lattice.Coord{I: i, J: j}
			cell := e.lat.At(c)
			if e.eligible != nil {
				if e.eligible(cell) {
					idx.Pin(c)
				}
				continue
			}
			if !cell.Occupied() {
				continue
			}
			idx.Pin(c)
			for _, nb := range e.lat.Neighbors(c) {
				idx.Increment(nb)
			}
		}
	}
}

// CheckInvariants recomputes the index and compares it with the live one. It
// is O(N²) and meant for tests and debugging.
func (e *Engine) CheckInvariants() error {
	n := e.lat.N()
	want := lattice.NewActiveIndex(n)
	e.populate(want)
	if want.Len() != e.idx.Len() {
		return &lattice.InvariantError{Op: "check", Cause: "active set size differs from recomputation"}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := lattice.Coord{I: i, J: j}
			if want.Contains(c) != e.idx.Contains(c) || want.Weight(c) != e.idx.Weight(c) || want.Pinned(c) != e.idx.Pinned(c) {
				return &lattice.InvariantError{Op: "check", Site: c, Cause: "entry differs from recomputation"}
			}
		}
	}
	return nil
}
