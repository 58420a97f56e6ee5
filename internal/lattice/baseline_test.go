package lattice

import (
	"math/rand/v2"
	"testing"
)

func TestHilbertLabelsAreUniqueAndOffset(t *testing.T) {
	for _, n := range []int{1, 3, 4, 6, 8} {
		l, _ := New(n)
		if err := l.FillHilbert(); err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		seen := map[uint32]bool{}
		for _, c := range l.Cells() {
			label := c.Label()
			if label == 0 {
				t.Fatalf("n=%d: zero label in hilbert fill", n)
			}
			if seen[label] {
				t.Fatalf("n=%d: duplicate label %d", n, label)
			}
			seen[label] = true
		}
	}

	l, _ := New(4)
	if got, _ := l.HilbertLabel(Coord{0, 0}); got != 1 {
		t.Fatalf("origin label %d, want 1", got)
	}
	if got, _ := l.HilbertLabel(Coord{3, 1}); got != 7 {
		t.Fatalf("(3,1) label %d, want 7", got)
	}
}

func TestFillProgenitorsAndRelabel(t *testing.T) {
	l, _ := New(4)
	if err := l.FillProgenitors(); err != nil {
		t.Fatal(err)
	}
	if got := l.Count(Cell.IsProgenitor); got != 4 {
		t.Fatalf("progenitors %d, want 4", got)
	}
	for i, c := range l.Cells() {
		at := l.CoordOf(i)
		even := at.I%2 == 0 && at.J%2 == 0
		if c.IsProgenitor() != even {
			t.Fatalf("site %v progenitor=%v", at, c.IsProgenitor())
		}
	}

	l.Set(Coord{0, 1}, l.Get(0, 0).Differentiate())
	l.Relabel()
	want := map[Coord]Cell{{0, 0}: Progenitor(1), {0, 2}: Progenitor(2), {2, 0}: Progenitor(3), {2, 2}: Progenitor(4)}
	for i, c := range l.Cells() {
		at := l.CoordOf(i)
		if w, ok := want[at]; ok {
			if c != w {
				t.Fatalf("site %v = %v, want %v", at, c, w)
			}
			continue
		}
		if c != Vacant {
			t.Fatalf("site %v = %v after relabel, want unlabelled", at, c)
		}
	}
}

func TestFillRandomExtremes(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	l, _ := New(5)
	l.FillRandom(1, r, Labelled(1))
	if l.Population() != 25 {
		t.Fatalf("density 1 populated %d sites", l.Population())
	}
	l.FillRandom(0, r, Labelled(1))
	if l.Population() != 0 {
		t.Fatalf("density 0 populated %d sites", l.Population())
	}
	l.SeedCentre(Labelled(1))
	if l.Population() != 1 || !l.Get(2, 2).Occupied() {
		t.Fatal("SeedCentre did not leave exactly the centre occupied")
	}
}
