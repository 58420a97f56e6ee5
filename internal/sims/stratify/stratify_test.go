package stratify

import (
	"errors"
	"testing"

	"mad-kmc/internal/kmc"
	"mad-kmc/internal/kmc/kmctest"
	"mad-kmc/internal/lattice"
	"mad-kmc/pkg/core"
)

func TestSingleForcedEvent(t *testing.T) {
	// Sample the first differentiated site (0,1), take its left progenitor
	// (0,0), then backfill (0,0) from (2,0). Rate is 12 on a 4x4 lattice, so
	// the first waiting time is 0.5/12 and the second crosses the horizon.
	r := &kmctest.Script{
		Ints: []int{0, 0, 1, 1},
		Exps: []float64{0.5, 100},
	}
	log := &kmc.EventLog{}
	eng, err := kmc.New(kmc.Config{Size: 4, Horizon: 1}, New(), r, log)
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.Reset(); err != nil {
		t.Fatal(err)
	}
	before := eng.Lattice().Clone()
	res, err := eng.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Events != 1 {
		t.Fatalf("events %d, want 1", res.Events)
	}
	if !r.Drained() {
		t.Fatalf("script not consumed: %+v", r)
	}

	l := eng.Lattice()
	if got, want := l.Get(0, 1), before.Get(0, 0).Differentiate(); got != want {
		t.Fatalf("(0,1) = %v, want %v", got, want)
	}
	if got, want := l.Get(0, 0), before.Get(2, 0); got != want {
		t.Fatalf("(0,0) = %v, want backfill %v", got, want)
	}

	changed := 0
	for i := range l.Cells() {
		if l.Cells()[i] != before.Cells()[i] {
			changed++
		}
	}
	if changed != 2 {
		t.Fatalf("%d sites changed, want the stratified site and one backfill", changed)
	}
	if a, b := before.Count(lattice.Cell.IsProgenitor), l.Count(lattice.Cell.IsProgenitor); a != b {
		t.Fatalf("progenitor count %d -> %d", a, b)
	}
	if len(log.Events) != 2 || log.Events[0].Site != (lattice.Coord{I: 0, J: 1}) || log.Events[1].Site != (lattice.Coord{I: 0, J: 0}) {
		t.Fatalf("events %+v", log.Events)
	}
	if res.Active != 12 {
		t.Fatalf("active %d, want 12", res.Active)
	}
}

func TestProgenitorCountInvariant(t *testing.T) {
	eng, err := kmc.New(kmc.Config{Size: 8, Horizon: 2}, New(), core.NewRNG(5))
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.Reset(); err != nil {
		t.Fatal(err)
	}
	want := eng.Lattice().Count(lattice.Cell.IsProgenitor)
	if want != 16 {
		t.Fatalf("initial progenitors %d, want 16", want)
	}
	for eng.State() != kmc.StateTerminated {
		if _, err := eng.Step(); err != nil {
			t.Fatal(err)
		}
		if got := eng.Lattice().Count(lattice.Cell.IsProgenitor); got != want {
			t.Fatalf("progenitor count drifted to %d", got)
		}
		if err := eng.CheckInvariants(); err != nil {
			t.Fatal(err)
		}
	}
	for i, c := range eng.Lattice().Cells() {
		at := eng.Lattice().CoordOf(i)
		if c.IsProgenitor() != (at.I%2 == 0 && at.J%2 == 0) {
			t.Fatalf("progenitor left the sub-lattice at %v", at)
		}
	}
}

func TestOddSizeRejected(t *testing.T) {
	_, err := kmc.New(kmc.Config{Size: 5, Horizon: 1}, New(), core.NewRNG(1))
	if !errors.Is(err, kmc.ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestParityPicksAdjacentProgenitor(t *testing.T) {
	l, _ := lattice.New(4)
	cases := []struct {
		site  lattice.Coord
		coins []int
		want  lattice.Coord
	}{
		{lattice.Coord{I: 0, J: 1}, []int{1}, lattice.Coord{I: 0, J: 2}},
		{lattice.Coord{I: 1, J: 0}, []int{0}, lattice.Coord{I: 0, J: 0}},
		{lattice.Coord{I: 1, J: 3}, []int{1, 1}, lattice.Coord{I: 2, J: 0}},
		{lattice.Coord{I: 3, J: 3}, []int{0, 0}, lattice.Coord{I: 2, J: 2}},
	}
	for _, tc := range cases {
		got := progenitorNeighbour(l, tc.site, &kmctest.Script{Ints: tc.coins})
		if got != tc.want {
			t.Fatalf("site %v coins %v: got %v, want %v", tc.site, tc.coins, got, tc.want)
		}
	}
}
