package render

import (
	"image/color"

	"mad-kmc/internal/lattice"
	"mad-kmc/pkg/core"
	"mad-kmc/pkg/hilbert"
)

// LabelColor maps a label to an RGB colour: the label is hashed to 24 bits and
// the hash is walked along a 3D Hilbert curve of order 8, so nearby hashes get
// similar colours but labels themselves scatter.
func LabelColor(label uint32) color.RGBA {
	p := hilbert.MustPoint(3, 8, uint64(core.LabelHash(label)))
	return color.RGBA{R: uint8(p[0]), G: uint8(p[1]), B: uint8(p[2]), A: 255}
}

// CellColor is black for empty cells and LabelColor otherwise.
func CellColor(c lattice.Cell) color.RGBA {
	if !c.Occupied() {
		return color.RGBA{A: 255}
	}
	return LabelColor(c.Label())
}

// Palette caches label colours for repeated frames.
type Palette struct {
	colors map[uint32]color.RGBA
}

// NewPalette returns an empty cache.
func NewPalette() *Palette {
	return &Palette{colors: map[uint32]color.RGBA{}}
}

// Color returns the cached colour of label.
func (p *Palette) Color(label uint32) color.RGBA {
	if c, ok := p.colors[label]; ok {
		return c
	}
	c := LabelColor(label)
	p.colors[label] = c
	return c
}
