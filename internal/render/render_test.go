package render

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mad-kmc/internal/kmc"
	"mad-kmc/internal/lattice"
	"mad-kmc/pkg/core"
	"mad-kmc/pkg/hilbert"
)

func newLattice(t *testing.T, n int, occupied map[lattice.Coord]lattice.Cell) *lattice.Lattice {
	t.Helper()
	l, err := lattice.New(n)
	if err != nil {
		t.Fatal(err)
	}
	for c, v := range occupied {
		l.Set(c, v)
	}
	return l
}

func TestLabelColorFollowsHashAndCurve(t *testing.T) {
	for _, label := range []uint32{1, 2, 77, 1 << 20} {
		p := hilbert.MustPoint(3, 8, uint64(core.LabelHash(label)))
		want := color.RGBA{R: uint8(p[0]), G: uint8(p[1]), B: uint8(p[2]), A: 255}
		if got := LabelColor(label); got != want {
			t.Fatalf("LabelColor(%d) = %v, want %v", label, got, want)
		}
	}
	if CellColor(lattice.Vacant) != (color.RGBA{A: 255}) {
		t.Fatal("vacant cells must be black")
	}
	pal := NewPalette()
	if pal.Color(5) != LabelColor(5) || pal.Color(5) != LabelColor(5) {
		t.Fatal("palette disagrees with LabelColor")
	}
}

func TestWritePBM(t *testing.T) {
	l := newLattice(t, 2, map[lattice.Coord]lattice.Cell{{I: 0, J: 0}: lattice.Labelled(1)})
	var buf bytes.Buffer
	if err := WritePBM(&buf, l); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "P1\n2 2\n1 0\n0 0\n"; got != want {
		t.Fatalf("PBM = %q, want %q", got, want)
	}
}

func TestWritePPM(t *testing.T) {
	l := newLattice(t, 2, map[lattice.Coord]lattice.Cell{{I: 1, J: 1}: lattice.Progenitor(3)})
	var buf bytes.Buffer
	if err := WritePPM(&buf, l); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 || lines[0] != "P3" || lines[1] != "2 2" || lines[2] != "255" {
		t.Fatalf("unexpected PPM layout: %q", buf.String())
	}
	if lines[3] != "0 0 0 0 0 0" {
		t.Fatalf("first row %q, want black pixels", lines[3])
	}
	c := LabelColor(3)
	if want := fmt.Sprintf("0 0 0 %d %d %d", c.R, c.G, c.B); lines[4] != want {
		t.Fatalf("second row %q, want %q", lines[4], want)
	}
}

func TestWriteSnapshot(t *testing.T) {
	l := newLattice(t, 2, map[lattice.Coord]lattice.Cell{{I: 0, J: 1}: lattice.Progenitor(2)})
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, l, 3); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "0 5 \n0 0 \n3\n"; got != want {
		t.Fatalf("snapshot = %q, want %q", got, want)
	}
	buf.Reset()
	if err := WriteSnapshot(&buf, l, -1); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "0 5 \n0 0 \n"; got != want {
		t.Fatalf("snapshot without trailer = %q, want %q", got, want)
	}
}

func TestWritePictureFormats(t *testing.T) {
	dir := t.TempDir()
	l := newLattice(t, 3, map[lattice.Coord]lattice.Cell{{I: 1, J: 2}: lattice.Labelled(9)})

	pngPath := filepath.Join(dir, "out.png")
	if err := WritePicture(pngPath, l); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 3 {
		t.Fatalf("png bounds %v", b)
	}
	r, g, b, _ := img.At(2, 1).RGBA()
	want := LabelColor(9)
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Fatalf("pixel (x=2,y=1) = %d,%d,%d, want %v", r>>8, g>>8, b>>8, want)
	}

	ppmPath := filepath.Join(dir, "out.ppm")
	if err := WritePicture(ppmPath, l); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(ppmPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "P3\n3 3\n255\n") {
		t.Fatalf("ppm header %q", string(data[:12]))
	}
}

func TestFrameRecorderOneFramePerEvent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	rec, err := NewFrameRecorder(dir)
	if err != nil {
		t.Fatal(err)
	}
	l := newLattice(t, 2, nil)
	events := []kmc.Event{
		{Seq: 1, Time: 0.25},
		{Seq: 1, Time: 0.25},
		{Seq: 2, Time: 1.5},
		{Seq: 3, Time: 0.25, Restart: 1},
	}
	for _, ev := range events {
		if err := rec.Record(ev, l); err != nil {
			t.Fatal(err)
		}
	}
	if rec.Written() != 3 {
		t.Fatalf("wrote %d frames, want 3", rec.Written())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{
		"000000-00000000000250000000.pbm",
		"000000-00000000001500000000.pbm",
		"000001-00000000000250000000.pbm",
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("frames %v, want %v", names, want)
	}
}

func TestFillPaletteClampsAndClears(t *testing.T) {
	buf := make([]byte, 8)
	FillPaletteRGBA(buf, []uint8{0, 9}, OccupancyPalette)
	if buf[3] != 255 || buf[4] != OccupancyPalette[2].R {
		t.Fatalf("palette fill %v", buf)
	}
	FillPaletteRGBA(buf, []uint8{1, 1}, nil)
	for _, b := range buf {
		if b != 0 {
			t.Fatalf("empty palette left %v", buf)
		}
	}
}
