// Package kmctest provides scripted random sources for driving rules and
// engines through exact event sequences in tests.
package kmctest

import "fmt"

// Script replays fixed draws. Each method consumes the next value of its own
// queue and panics when the queue is exhausted or a value is out of range.
type Script struct {
	Ints   []int
	Floats []float64
	Exps   []float64
}

// IntN returns the next scripted integer.
func (s *Script) IntN(n int) int {
	if len(s.Ints) == 0 {
		panic("kmctest: IntN queue exhausted")
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("kmctest: scripted IntN value %d outside [0,%d)", v, n))
	}
	return v
}

// Float64 returns the next scripted uniform draw.
func (s *Script) Float64() float64 {
	if len(s.Floats) == 0 {
		panic("kmctest: Float64 queue exhausted")
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

// ExpFloat64 returns the next scripted exponential draw.
func (s *Script) ExpFloat64() float64 {
	if len(s.Exps) == 0 {
		panic("kmctest: ExpFloat64 queue exhausted")
	}
	v := s.Exps[0]
	s.Exps = s.Exps[1:]
	return v
}

// Drained reports whether every queue has been consumed.
func (s *Script) Drained() bool {
	return len(s.Ints) == 0 && len(s.Floats) == 0 && len(s.Exps) == 0
}
