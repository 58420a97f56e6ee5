package kmc

import (
	"slices"

	"mad-kmc/internal/lattice"
)

// Clone is the number of cells carrying one label.
type Clone struct {
	Label uint32 `json:"label"`
	Size  int    `json:"size"`
}

// Clones tallies non-zero labels in label-ascending order.
func Clones(l *lattice.Lattice) []Clone {
	counts := map[uint32]int{}
	for _, c := range l.Cells() {
		if label := c.Label(); label != 0 {
			counts[label]++
		}
	}
	out := make([]Clone, 0, len(counts))
	for label, n := range counts {
		out = append(out, Clone{Label: label, Size: n})
	}
	slices.SortFunc(out, func(a, b Clone) int {
		switch {
		case a.Label < b.Label:
			return -1
		case a.Label > b.Label:
			return 1
		}
		return 0
	})
	return out
}
