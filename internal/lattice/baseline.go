package lattice

import (
	"fmt"

	"mad-kmc/pkg/hilbert"
)

// Float64 draws uniform floats in [0, 1).
type Float64 interface {
	Float64() float64
}

// Centre returns the seed site (N/2, N/2).
func (l *Lattice) Centre() Coord { return Coord{I: l.n / 2, J: l.n / 2} }

// HilbertLabel returns the label assigned to c by the baseline labelling: the
// position of c along the Hilbert curve covering the lattice, plus one so the
// curve origin stays distinct from the unlabelled value.
func (l *Lattice) HilbertLabel(c Coord) (uint32, error) {
	c = l.Wrap(c.I, c.J)
	h, err := hilbert.Index(2, hilbert.OrderFor(l.n), []uint32{uint32(c.I), uint32(c.J)})
	if err != nil {
		return 0, err
	}
	if h >= MaxLabel {
		return 0, fmt.Errorf("%w: hilbert label %d overflows a cell", ErrSize, h+1)
	}
	return uint32(h) + 1, nil
}

// SeedCentre places v on the centre site and clears every other cell.
func (l *Lattice) SeedCentre(v Cell) {
	l.Clear()
	l.Set(l.Centre(), v)
}

// FillRandom occupies each site with v independently with probability
// density, row by row.
func (l *Lattice) FillRandom(density float64, r Float64, v Cell) {
	for i := range l.cells {
		if r.Float64() < density {
			l.cells[i] = v
			continue
		}
		l.cells[i] = Vacant
	}
}

// FillHilbert labels every site with its Hilbert label.
func (l *Lattice) FillHilbert() error {
	for i := range l.cells {
		label, err := l.HilbertLabel(l.CoordOf(i))
		if err != nil {
			return err
		}
		l.cells[i] = Labelled(label)
	}
	return nil
}

// FillProgenitors puts a Hilbert-labelled progenitor on every (even, even)
// site and leaves the rest unlabelled.
func (l *Lattice) FillProgenitors() error {
	for i := range l.cells {
		c := l.CoordOf(i)
		if c.I%2 != 0 || c.J%2 != 0 {
			l.cells[i] = Vacant
			continue
		}
		label, err := l.HilbertLabel(c)
		if err != nil {
			return err
		}
		l.cells[i] = Progenitor(label)
	}
	return nil
}

// Relabel gives every progenitor a fresh sequential label starting at 1 in
// row-major order and clears every other cell.
func (l *Lattice) Relabel() {
	next := uint32(1)
	for i, c := range l.cells {
		if !c.IsProgenitor() {
			l.cells[i] = Vacant
			continue
		}
		l.cells[i] = Progenitor(next)
		next++
	}
}
