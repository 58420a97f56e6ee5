package lattice

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func expectInvariant(t *testing.T, op string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("%s: expected invariant panic", op)
		}
		var ie *InvariantError
		if err, ok := r.(error); !ok || !errors.As(err, &ie) {
			t.Fatalf("%s: panic value %v is not an InvariantError", op, r)
		}
	}()
	fn()
}

func TestIndexPinAndWeight(t *testing.T) {
	x := NewActiveIndex(4)
	a, b := Coord{1, 1}, Coord{2, 3}

	x.Pin(a)
	x.Increment(b)
	x.Increment(b)
	if x.Len() != 2 || !x.Contains(a) || !x.Contains(b) {
		t.Fatalf("unexpected membership: len=%d", x.Len())
	}
	if x.Weight(b) != 2 || x.Weight(a) != 0 {
		t.Fatalf("weights a=%d b=%d", x.Weight(a), x.Weight(b))
	}

	x.Decrement(b)
	if !x.Contains(b) {
		t.Fatal("b dropped while weight still positive")
	}
	x.Decrement(b)
	if x.Contains(b) {
		t.Fatal("b kept after weight reached zero")
	}

	x.Increment(a)
	x.Unpin(a)
	if !x.Contains(a) {
		t.Fatal("a dropped while weighted")
	}
	x.Decrement(a)
	if x.Len() != 0 {
		t.Fatalf("index not empty: %v", x.Members())
	}
}

func TestIndexInvariantViolations(t *testing.T) {
	x := NewActiveIndex(3)
	expectInvariant(t, "sample empty", func() { x.Sample(rand.New(rand.NewPCG(1, 2))) })
	expectInvariant(t, "decrement absent", func() { x.Decrement(Coord{0, 0}) })
	expectInvariant(t, "unpin absent", func() { x.Unpin(Coord{1, 1}) })

	x.Pin(Coord{2, 2})
	expectInvariant(t, "double pin", func() { x.Pin(Coord{2, 2}) })
	expectInvariant(t, "decrement pinned zero weight", func() { x.Decrement(Coord{2, 2}) })
	expectInvariant(t, "unwrapped coordinate", func() { x.Increment(Coord{3, 0}) })
}

func TestIndexSampleUniform(t *testing.T) {
	x := NewActiveIndex(8)
	sites := []Coord{{0, 0}, {3, 4}, {7, 7}, {5, 1}}
	for _, s := range sites {
		x.Pin(s)
	}
	r := rand.New(rand.NewPCG(3, 4))
	counts := map[Coord]int{}
	const draws = 40000
	for i := 0; i < draws; i++ {
		counts[x.Sample(r)]++
	}
	for _, s := range sites {
		got := counts[s]
		if got < draws/4-draws/20 || got > draws/4+draws/20 {
			t.Fatalf("site %v sampled %d times out of %d", s, got, draws)
		}
	}
	if len(counts) != len(sites) {
		t.Fatalf("sampled %d distinct sites, want %d", len(counts), len(sites))
	}
}

func TestIndexSwapRemoveKeepsPositions(t *testing.T) {
	x := NewActiveIndex(5)
	for i := 0; i < 5; i++ {
		x.Pin(Coord{i, i})
	}
	x.Unpin(Coord{0, 0})
	x.Unpin(Coord{2, 2})
	for _, m := range x.Members() {
		if !x.Contains(m) {
			t.Fatalf("member %v not contained", m)
		}
	}
	for _, gone := range []Coord{{0, 0}, {2, 2}} {
		if x.Contains(gone) {
			t.Fatalf("%v still contained", gone)
		}
	}
	x.Clear()
	if x.Len() != 0 || x.Contains(Coord{4, 4}) || x.Pinned(Coord{4, 4}) {
		t.Fatal("Clear left entries behind")
	}
}
