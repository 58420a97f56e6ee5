package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mad-kmc/internal/lattice"
)

// Image renders l at one pixel per site.
func Image(l *lattice.Lattice) *image.RGBA {
	n := l.N()
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	cells := l.Cells()
	FillCellsRGBA(img.Pix, cells, NewPalette())
	return img
}

// WritePNG encodes l as a PNG image.
func WritePNG(w io.Writer, l *lattice.Lattice) error {
	return png.Encode(w, Image(l))
}

// WritePicture writes l to path, as PNG when the extension is .png and as a
// plain PPM otherwise.
func WritePicture(path string, l *lattice.Lattice) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create picture: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close picture: %w", cerr)
		}
	}()
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return WritePNG(f, l)
	}
	return WritePPM(f, l)
}

// WriteSnapshotFile writes a raw snapshot of l to path.
func WriteSnapshotFile(path string, l *lattice.Lattice, trailer int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close snapshot: %w", cerr)
		}
	}()
	return WriteSnapshot(f, l, trailer)
}
