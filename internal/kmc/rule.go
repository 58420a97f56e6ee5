package kmc

import (
	"mad-kmc/internal/core"
	"mad-kmc/internal/lattice"
)

// Rand is the source of random draws consumed by the engine and its rules.
// *core.RNG and *rand.Rand both satisfy it.
type Rand interface {
	IntN(n int) int
	Float64() float64
	ExpFloat64() float64
}

// Rule is a pluggable transition rule.
type Rule interface {
	// Name identifies the rule in the registry and in outputs.
	Name() string
	// Init fills a vacant lattice with the rule's baseline state.
	Init(l *lattice.Lattice, r Rand) error
	// Rate returns the total event rate for the current state. Zero means
	// the system is quiescent.
	Rate(l *lattice.Lattice, active *lattice.ActiveIndex) float64
	// Apply performs one event at site and returns every change it made, in
	// the order the changes were written. weight is the neighbour weight the
	// index holds for site.
	Apply(l *lattice.Lattice, site lattice.Coord, weight int, r Rand) []lattice.Update
}

// CandidateRule is implemented by rules whose active set is "sites that may
// trigger the next event" rather than "occupied sites and their neighbours".
type CandidateRule interface {
	Rule
	Eligible(c lattice.Cell) bool
}

// Validator checks rule preconditions on the run configuration before any
// state is built.
type Validator interface {
	Validate(cfg Config) error
}

// Reseeder restores a single active site after extinction. Rules without it
// cannot run under PolicyRestart.
type Reseeder interface {
	Reseed(l *lattice.Lattice, r Rand) []lattice.Update
}

// Equilibrator rules run a warm-up phase of Warmup() time units before the
// measured run, then relabel the lattice.
type Equilibrator interface {
	Warmup() float64
	Relabel(l *lattice.Lattice)
}

// ParameterProvider exposes a rule's tunables to the viewer.
type ParameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// ActiveRate is the default rate: one unit per active site.
func ActiveRate(active *lattice.ActiveIndex) float64 {
	return float64(active.Len())
}
