package lattice

import "strconv"

// Cell is the state of one lattice site. Bit 0 marks a progenitor; the upper
// 31 bits hold the label. The zero value is a vacant (or, in the progenitor
// models, an unlabelled differentiated) site.
type Cell uint32

// Vacant is the empty cell.
const Vacant Cell = 0

// MaxLabel is the largest label a Cell can carry.
const MaxLabel = 1<<31 - 1

// Labelled returns an occupied, non-progenitor cell carrying label.
func Labelled(label uint32) Cell { return Cell(label << 1) }

// Progenitor returns a progenitor cell carrying label.
func Progenitor(label uint32) Cell { return Cell(label<<1 | 1) }

// Occupied reports whether the cell holds anything.
func (c Cell) Occupied() bool { return c != Vacant }

// IsProgenitor reports whether the progenitor bit is set.
func (c Cell) IsProgenitor() bool { return c&1 == 1 }

// Label returns the cell's label (0 for vacant or unlabelled cells).
func (c Cell) Label() uint32 { return uint32(c) >> 1 }

// Differentiate clears the progenitor bit, keeping the label.
func (c Cell) Differentiate() Cell { return c &^ 1 }

func (c Cell) String() string {
	switch {
	case c == Vacant:
		return "vacant"
	case c.IsProgenitor():
		return "P" + strconv.FormatUint(uint64(c.Label()), 10)
	default:
		return "L" + strconv.FormatUint(uint64(c.Label()), 10)
	}
}
