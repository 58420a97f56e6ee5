package hilbert

import (
	"errors"
	"slices"
	"testing"
)

// forEachPoint visits every point of the dim-dimensional grid with side 2^order.
func forEachPoint(dim, order int, fn func(p []uint32)) {
	side := uint32(1) << order
	p := make([]uint32, dim)
	for {
		fn(p)
		k := 0
		for ; k < dim; k++ {
			p[k]++
			if p[k] < side {
				break
			}
			p[k] = 0
		}
		if k == dim {
			return
		}
	}
}

func TestRoundTrip(t *testing.T) {
	maxOrder := map[int]int{1: 10, 2: 6, 3: 4, 4: 3}
	for dim := 1; dim <= 4; dim++ {
		for order := 0; order <= maxOrder[dim]; order++ {
			forEachPoint(dim, order, func(p []uint32) {
				h, err := Index(dim, order, p)
				if err != nil {
					t.Fatalf("Index(%d,%d,%v): %v", dim, order, p, err)
				}
				back, err := Point(dim, order, h)
				if err != nil {
					t.Fatalf("Point(%d,%d,%d): %v", dim, order, h, err)
				}
				if !slices.Equal(back, p) {
					t.Fatalf("round trip d=%d m=%d: %v -> %d -> %v", dim, order, p, h, back)
				}
			})
		}
	}
}

func TestRoundTripHighOrderSamples(t *testing.T) {
	cases := []struct {
		dim, order int
	}{
		{1, 10}, {2, 10}, {3, 10}, {4, 10}, {2, 32}, {8, 8}, {64, 1},
	}
	for _, tc := range cases {
		side := uint64(1) << tc.order
		for s := uint64(0); s < 257; s++ {
			p := make([]uint32, tc.dim)
			for k := range p {
				p[k] = uint32((s*2654435761 + uint64(k)*40503) % side)
			}
			h := MustIndex(tc.dim, tc.order, p)
			if back := MustPoint(tc.dim, tc.order, h); !slices.Equal(back, p) {
				t.Fatalf("d=%d m=%d: %v -> %d -> %v", tc.dim, tc.order, p, h, back)
			}
		}
	}
}

func TestBijection(t *testing.T) {
	shapes := [][2]int{{1, 6}, {2, 1}, {2, 4}, {3, 3}, {4, 2}}
	for _, shape := range shapes {
		dim, order := shape[0], shape[1]
		total := uint64(1) << (dim * order)
		seen := make([]bool, total)
		forEachPoint(dim, order, func(p []uint32) {
			h := MustIndex(dim, order, p)
			if h >= total {
				t.Fatalf("d=%d m=%d: index %d out of range for %v", dim, order, h, p)
			}
			if seen[h] {
				t.Fatalf("d=%d m=%d: index %d produced twice", dim, order, h)
			}
			seen[h] = true
		})
		for h, ok := range seen {
			if !ok {
				t.Fatalf("d=%d m=%d: index %d never produced", dim, order, h)
			}
		}
	}
}

func TestCurveIsContinuous(t *testing.T) {
	for _, shape := range [][2]int{{2, 3}, {2, 5}, {3, 2}, {3, 3}} {
		dim, order := shape[0], shape[1]
		prev := MustPoint(dim, order, 0)
		for h := uint64(1); h < uint64(1)<<(dim*order); h++ {
			cur := MustPoint(dim, order, h)
			dist := 0
			for k := range cur {
				diff := int(cur[k]) - int(prev[k])
				if diff < 0 {
					diff = -diff
				}
				dist += diff
			}
			if dist != 1 {
				t.Fatalf("d=%d m=%d: step %d->%d jumps %v -> %v", dim, order, h-1, h, prev, cur)
			}
			prev = cur
		}
	}
}

func TestKnownValues(t *testing.T) {
	if h := MustIndex(2, 2, []uint32{3, 1}); h != 6 {
		t.Fatalf("Index(2,2,(3,1)) = %d, want 6", h)
	}
	if p := MustPoint(2, 2, 6); !slices.Equal(p, []uint32{3, 1}) {
		t.Fatalf("Point(2,2,6) = %v, want [3 1]", p)
	}

	order1 := map[[2]uint32]uint64{{0, 0}: 0, {1, 0}: 1, {1, 1}: 2, {0, 1}: 3}
	for p, want := range order1 {
		if h := MustIndex(2, 1, p[:]); h != want {
			t.Fatalf("Index(2,1,%v) = %d, want %d", p, h, want)
		}
	}

	if p := MustPoint(3, 8, 1); !slices.Equal(p, []uint32{1, 0, 0}) {
		t.Fatalf("Point(3,8,1) = %v, want [1 0 0]", p)
	}
}

func TestZeroOrder(t *testing.T) {
	for dim := 1; dim <= 4; dim++ {
		h, err := Index(dim, 0, make([]uint32, dim))
		if err != nil || h != 0 {
			t.Fatalf("Index(%d,0,zeros) = %d, %v", dim, h, err)
		}
		p, err := Point(dim, 0, 0)
		if err != nil {
			t.Fatalf("Point(%d,0,0): %v", dim, err)
		}
		if !slices.Equal(p, make([]uint32, dim)) {
			t.Fatalf("Point(%d,0,0) = %v", dim, p)
		}
	}
}

func TestInvalidArguments(t *testing.T) {
	cases := []struct {
		name string
		err  error
		fn   func() error
	}{
		{"dimension", ErrDimension, func() error { _, err := Index(0, 2, nil); return err }},
		{"order", ErrOrder, func() error { _, err := Point(2, 33, 0); return err }},
		{"width", ErrWidth, func() error { _, err := Index(3, 22, make([]uint32, 3)); return err }},
		{"coordinate", ErrCoordinate, func() error { _, err := Index(2, 2, []uint32{4, 0}); return err }},
		{"index", ErrIndexRange, func() error { _, err := Point(2, 2, 16); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.fn(); !errors.Is(err, tc.err) {
				t.Fatalf("got %v, want %v", err, tc.err)
			}
		})
	}

	if _, err := Index(2, 2, []uint32{1}); err == nil {
		t.Fatal("expected error for short point")
	}
}

func TestMustPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustIndex did not panic")
		}
	}()
	MustIndex(2, 1, []uint32{2, 0})
}

func TestOrderFor(t *testing.T) {
	cases := map[int]int{0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 16: 4, 17: 5, 256: 8}
	for n, want := range cases {
		if got := OrderFor(n); got != want {
			t.Fatalf("OrderFor(%d) = %d, want %d", n, got, want)
		}
	}
}
