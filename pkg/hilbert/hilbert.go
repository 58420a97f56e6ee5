// Package hilbert maps between points of an n-dimensional integer grid and
// their position along a Hilbert curve.
//
// The encoding is the compact Hilbert index: the point's coordinates are read
// one bit-plane at a time from the most significant bit, each plane forming a
// dim-bit symbol that is rotated by the running entry/direction state and
// Gray-decoded into the next dim bits of the index. Point runs the same state
// machine in reverse, so Point(dim, order, Index(dim, order, p)) == p for every
// valid p.
package hilbert

import (
	"errors"
	"fmt"
	"math/bits"
)

// MaxIndexBits is the widest index the codec produces (dim*order).
const MaxIndexBits = 64

// MaxOrder is the largest supported order; coordinates are uint32.
const MaxOrder = 32

var (
	// ErrDimension reports a dimension below one.
	ErrDimension = errors.New("hilbert: dimension must be at least 1")
	// ErrOrder reports an order outside [0, MaxOrder].
	ErrOrder = errors.New("hilbert: order out of range")
	// ErrWidth reports dim*order exceeding MaxIndexBits.
	ErrWidth = errors.New("hilbert: dim*order exceeds 64 bits")
	// ErrCoordinate reports a coordinate outside [0, 2^order).
	ErrCoordinate = errors.New("hilbert: coordinate out of range")
	// ErrIndexRange reports an index outside [0, 2^(dim*order)).
	ErrIndexRange = errors.New("hilbert: index out of range")
)

func checkShape(dim, order int) error {
	if dim < 1 {
		return ErrDimension
	}
	if order < 0 || order > MaxOrder {
		return fmt.Errorf("%w: %d", ErrOrder, order)
	}
	if dim*order > MaxIndexBits {
		return fmt.Errorf("%w: %d*%d", ErrWidth, dim, order)
	}
	return nil
}

// Index returns the position of p along the dim-dimensional Hilbert curve of
// the given order. Each coordinate must lie in [0, 2^order).
func Index(dim, order int, p []uint32) (uint64, error) {
	if err := checkShape(dim, order); err != nil {
		return 0, err
	}
	if len(p) != dim {
		return 0, fmt.Errorf("hilbert: point has %d coordinates, want %d", len(p), dim)
	}
	if order < MaxOrder {
		for k, v := range p {
			if uint64(v) >= uint64(1)<<order {
				return 0, fmt.Errorf("%w: p[%d]=%d with order %d", ErrCoordinate, k, v, order)
			}
		}
	}

	w := uint(dim)
	var h, e uint64
	var d uint
	for i := 0; i < order; i++ {
		bit := uint(order - 1 - i)
		var l uint64
		for k := 0; k < dim; k++ {
			l |= uint64((p[k]>>bit)&1) << (w - 1 - uint(k))
		}
		l = rrot(l^e, d+1, w)
		sym := inverseGray(l)
		e ^= lrot(entry(sym), d+1, w)
		d = (d + direction(sym, w) + 1) % w
		h = h<<w | sym
	}
	return h, nil
}

// Point is the inverse of Index: it returns the coordinates of the point at
// position h along the curve.
func Point(dim, order int, h uint64) ([]uint32, error) {
	if err := checkShape(dim, order); err != nil {
		return nil, err
	}
	if width := dim * order; width < MaxIndexBits && h >= uint64(1)<<width {
		return nil, fmt.Errorf("%w: %d needs more than %d bits", ErrIndexRange, h, width)
	}

	w := uint(dim)
	p := make([]uint32, dim)
	var e uint64
	var d uint
	for i := 0; i < order; i++ {
		shift := uint(order-1-i) * w
		sym := (h >> shift) & mask(w)
		l := lrot(gray(sym), d+1, w) ^ e
		bit := uint(order - 1 - i)
		for k := 0; k < dim; k++ {
			p[k] |= uint32((l>>(w-1-uint(k)))&1) << bit
		}
		e ^= lrot(entry(sym), d+1, w)
		d = (d + direction(sym, w) + 1) % w
	}
	return p, nil
}

// MustIndex is like Index but panics on invalid arguments.
func MustIndex(dim, order int, p []uint32) uint64 {
	h, err := Index(dim, order, p)
	if err != nil {
		panic(err)
	}
	return h
}

// MustPoint is like Point but panics on invalid arguments.
func MustPoint(dim, order int, h uint64) []uint32 {
	p, err := Point(dim, order, h)
	if err != nil {
		panic(err)
	}
	return p
}

// OrderFor returns the smallest order whose curve covers n values per axis.
func OrderFor(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

func mask(width uint) uint64 {
	// 1<<64 wraps to zero, which yields the full mask.
	return uint64(1)<<width - 1
}

func gray(x uint64) uint64 { return x ^ x>>1 }

func inverseGray(x uint64) uint64 {
	for shift := uint(1); shift < 64; shift <<= 1 {
		x ^= x >> shift
	}
	return x
}

func rrot(x uint64, i, width uint) uint64 {
	i %= width
	if i == 0 {
		return x & mask(width)
	}
	return (x>>i | x<<(width-i)) & mask(width)
}

func lrot(x uint64, i, width uint) uint64 {
	i %= width
	if i == 0 {
		return x & mask(width)
	}
	return (x<<i | x>>(width-i)) & mask(width)
}

// trailingOnes counts the trailing set bits of x, capped at width.
func trailingOnes(x uint64, width uint) uint {
	n := uint(bits.TrailingZeros64(^x))
	if n > width {
		return width
	}
	return n
}

// direction is the intra-sub-cube direction of symbol x.
func direction(x uint64, width uint) uint {
	switch {
	case x == 0:
		return 0
	case x%2 == 0:
		return trailingOnes(x-1, width) % width
	default:
		return trailingOnes(x, width) % width
	}
}

// entry is the entry corner of sub-cube x.
func entry(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	return gray(2 * ((x - 1) / 2))
}
