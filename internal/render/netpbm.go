package render

import (
	"bufio"
	"fmt"
	"io"

	"mad-kmc/internal/lattice"
)

// WritePBM writes the occupancy of l as a plain (P1) bitmap, one row per line.
func WritePBM(w io.Writer, l *lattice.Lattice) error {
	bw := bufio.NewWriter(w)
	n := l.N()
	fmt.Fprintf(bw, "P1\n%d %d\n", n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j > 0 {
				bw.WriteByte(' ')
			}
			if l.Get(i, j).Occupied() {
				bw.WriteByte('1')
			} else {
				bw.WriteByte('0')
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WritePPM writes l as a plain (P3) pixmap using CellColor.
func WritePPM(w io.Writer, l *lattice.Lattice) error {
	bw := bufio.NewWriter(w)
	n := l.N()
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", n, n)
	pal := NewPalette()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := l.Get(i, j)
			rgb := CellColor(c)
			if c.Occupied() {
				rgb = pal.Color(c.Label())
			}
			if j > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%d %d %d", rgb.R, rgb.G, rgb.B)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteSnapshot writes the raw cell values of l row by row, space separated.
// When trailer is non-negative it is written on a final line of its own.
func WriteSnapshot(w io.Writer, l *lattice.Lattice, trailer int) error {
	bw := bufio.NewWriter(w)
	n := l.N()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			fmt.Fprintf(bw, "%d ", uint32(l.Get(i, j)))
		}
		bw.WriteByte('\n')
	}
	if trailer >= 0 {
		fmt.Fprintf(bw, "%d\n", trailer)
	}
	return bw.Flush()
}
