package lattice

import (
	"errors"
	"testing"
)

func TestNewRejectsSideOutOfRange(t *testing.T) {
	for _, n := range []int{0, -3, MaxSize + 1} {
		if _, err := New(n); !errors.Is(err, ErrSize) {
			t.Fatalf("New(%d) error = %v, want ErrSize", n, err)
		}
	}
}

func TestWrapIsToroidal(t *testing.T) {
	l, _ := New(5)
	cases := []struct {
		i, j int
		want Coord
	}{
		{0, 0, Coord{0, 0}},
		{-1, 0, Coord{4, 0}},
		{5, -6, Coord{0, 4}},
		{12, 7, Coord{2, 2}},
	}
	for _, tc := range cases {
		if got := l.Wrap(tc.i, tc.j); got != tc.want {
			t.Fatalf("Wrap(%d,%d) = %v, want %v", tc.i, tc.j, got, tc.want)
		}
	}
	l.Set(Coord{-1, -1}, Labelled(3))
	if got := l.Get(4, 4); got != Labelled(3) {
		t.Fatalf("Set with negative coords landed elsewhere: %v", got)
	}
}

func TestNeighborsOrder(t *testing.T) {
	l, _ := New(4)
	got := l.Neighbors(Coord{0, 3})
	want := [4]Coord{{3, 3}, {0, 2}, {1, 3}, {0, 0}}
	if got != want {
		t.Fatalf("Neighbors = %v, want %v", got, want)
	}
}

func TestNeighborSum(t *testing.T) {
	l, _ := New(4)
	l.Set(Coord{1, 2}, Labelled(1))
	l.Set(Coord{3, 2}, Labelled(1))
	l.Set(Coord{2, 1}, Progenitor(5))
	if got := l.NeighborSum(Coord{2, 2}); got != 3 {
		t.Fatalf("NeighborSum = %d, want 3", got)
	}

	// On a 2x2 torus the up and down neighbour are the same site.
	small, _ := New(2)
	small.Set(Coord{1, 0}, Labelled(1))
	if got := small.NeighborSum(Coord{0, 0}); got != 2 {
		t.Fatalf("NeighborSum on 2x2 = %d, want 2", got)
	}
}

func TestSetReportsAffected(t *testing.T) {
	l, _ := New(3)
	u := l.Set(Coord{4, 0}, Labelled(9))
	if u.Site != (Coord{1, 0}) || u.Old != Vacant || u.New != Labelled(9) {
		t.Fatalf("unexpected update %+v", u)
	}
	want := [5]Coord{{1, 0}, {0, 0}, {1, 2}, {2, 0}, {1, 1}}
	if u.Affected != want {
		t.Fatalf("Affected = %v, want %v", u.Affected, want)
	}
	if u2 := l.Set(Coord{1, 0}, Vacant); u2.Old != Labelled(9) {
		t.Fatalf("second Set old = %v", u2.Old)
	}
}

func TestCellEncoding(t *testing.T) {
	p := Progenitor(7)
	if !p.IsProgenitor() || p.Label() != 7 || !p.Occupied() {
		t.Fatalf("progenitor encoding broken: %v", p)
	}
	d := p.Differentiate()
	if d.IsProgenitor() || d.Label() != 7 || d != Labelled(7) {
		t.Fatalf("Differentiate = %v", d)
	}
	if Vacant.Occupied() || Labelled(0) != Vacant {
		t.Fatal("label 0 must encode as vacant")
	}
	if Labelled(MaxLabel).Label() != MaxLabel {
		t.Fatal("MaxLabel does not round trip")
	}
	if got := p.String(); got != "P7" {
		t.Fatalf("String = %q", got)
	}
}

func TestPopulationAndClone(t *testing.T) {
	l, _ := New(3)
	l.Set(Coord{0, 0}, Labelled(1))
	l.Set(Coord{2, 2}, Progenitor(2))
	c := l.Clone()
	l.Clear()
	if l.Population() != 0 {
		t.Fatal("Clear left occupied cells")
	}
	if c.Population() != 2 {
		t.Fatalf("clone population = %d, want 2", c.Population())
	}
	if got := c.Count(Cell.IsProgenitor); got != 1 {
		t.Fatalf("progenitor count = %d, want 1", got)
	}
	if c.CoordOf(c.Index(Coord{2, 1})) != (Coord{2, 1}) {
		t.Fatal("Index/CoordOf mismatch")
	}
}
