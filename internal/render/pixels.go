package render

import (
	"image/color"

	"mad-kmc/internal/lattice"
)

// OccupancyPalette colours the byte states reported by the viewer adapter:
// empty, occupied, progenitor.
var OccupancyPalette = []color.RGBA{
	{R: 0, G: 0, B: 0, A: 255},
	{R: 235, G: 235, B: 235, A: 255},
	{R: 230, G: 120, B: 40, A: 255},
}

// FillCellsRGBA converts cells into RGBA pixels in buf using CellColor.
func FillCellsRGBA(buf []byte, cells []lattice.Cell, pal *Palette) {
	for i, c := range cells {
		col := color.RGBA{A: 255}
		if c.Occupied() {
			col = pal.Color(c.Label())
		}
		putRGBA(buf, i, col)
	}
}

// FillLabelsRGBA colours each label; label 0 is drawn black.
func FillLabelsRGBA(buf []byte, labels []uint32, pal *Palette) {
	for i, label := range labels {
		col := color.RGBA{A: 255}
		if label != 0 {
			col = pal.Color(label)
		}
		putRGBA(buf, i, col)
	}
}

// FillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func FillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			putRGBA(buf, i, color.RGBA{})
		}
		return
	}
	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		putRGBA(buf, i, palette[idx])
	}
}

func putRGBA(buf []byte, i int, col color.RGBA) {
	base := i * 4
	buf[base+0] = col.R
	buf[base+1] = col.G
	buf[base+2] = col.B
	buf[base+3] = col.A
}
