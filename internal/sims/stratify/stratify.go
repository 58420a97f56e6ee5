// Package stratify implements the progenitor/differentiation rule. Progenitors
// sit on the quarter sub-lattice of (even, even) sites. When a differentiated
// site stratifies, a neighbouring progenitor moves into it as a differentiated
// copy and the progenitor site is refilled from one of its four sub-lattice
// neighbours.
package stratify

import (
	"errors"
	"fmt"

	"mad-kmc/internal/core"
	"mad-kmc/internal/kmc"
	"mad-kmc/internal/lattice"
)

// Name is the registry key.
const Name = "stratify"

// ErrOddSize reports a lattice the progenitor sub-lattice cannot tile.
var ErrOddSize = errors.New("stratify: lattice size must be even")

// Stratify is the progenitor/differentiation rule.
type Stratify struct{}

// New returns a stratify rule.
func New() *Stratify { return &Stratify{} }

// Name identifies the rule.
func (s *Stratify) Name() string { return Name }

// Validate requires an even lattice side.
func (s *Stratify) Validate(cfg kmc.Config) error {
	if cfg.Size%2 != 0 {
		return fmt.Errorf("%w: %d", ErrOddSize, cfg.Size)
	}
	return nil
}

// Init places Hilbert-labelled progenitors on every (even, even) site.
func (s *Stratify) Init(l *lattice.Lattice, _ kmc.Rand) error {
	return l.FillProgenitors()
}

// Eligible selects the sites that may stratify: every non-progenitor.
func (s *Stratify) Eligible(c lattice.Cell) bool { return !c.IsProgenitor() }

// Rate is one unit per differentiated site.
func (s *Stratify) Rate(_ *lattice.Lattice, active *lattice.ActiveIndex) float64 {
	return kmc.ActiveRate(active)
}

type refill struct {
	dst, src      lattice.Coord
	differentiate bool
}

// Apply moves a neighbouring progenitor into site and backfills the
// progenitor's former position.
func (s *Stratify) Apply(l *lattice.Lattice, site lattice.Coord, _ int, r kmc.Rand) []lattice.Update {
	work := []refill{{dst: site, src: progenitorNeighbour(l, site, r), differentiate: true}}
	var updates []lattice.Update
	for len(work) > 0 {
		next := work[0]
		work = work[1:]
		v := l.At(next.src)
		if next.differentiate {
			v = v.Differentiate()
			// The progenitor that moved out leaves a hole on the sub-lattice.
			work = append(work, refill{dst: next.src, src: subLatticeNeighbour(l, next.src, r)})
		}
		updates = append(updates, l.Set(next.dst, v))
	}
	return updates
}

func coin(r kmc.Rand) int { return r.IntN(2)*2 - 1 }

// progenitorNeighbour picks one of the 2 or 4 progenitors adjacent to a
// non-progenitor site.
func progenitorNeighbour(l *lattice.Lattice, site lattice.Coord, r kmc.Rand) lattice.Coord {
	ai, aj := site.I, site.J
	switch {
	case site.I%2 == 0 && site.J%2 == 1:
		// Progenitors to the left and right.
		aj += coin(r)
	case site.I%2 == 1 && site.J%2 == 0:
		// Above and below.
		ai += coin(r)
	default:
		// Four diagonal corners.
		ai += coin(r)
		aj += coin(r)
	}
	return l.Wrap(ai, aj)
}

// subLatticeNeighbour picks one of the four progenitor sites two steps away.
func subLatticeNeighbour(l *lattice.Lattice, c lattice.Coord, r kmc.Rand) lattice.Coord {
	if r.IntN(2) == 1 {
		return l.Wrap(c.I+2*coin(r), c.J)
	}
	return l.Wrap(c.I, c.J+2*coin(r))
}

// Parameters reports the sub-lattice layout.
func (s *Stratify) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name:    "Stratify",
		Summary: "progenitors on (even, even) sites",
		Params: []core.Parameter{
			core.StringParam("init", "Initial layout", "hilbert progenitors"),
		},
	}}}
}

func init() {
	kmc.Register(Name, func(map[string]string) (kmc.Rule, error) {
		return New(), nil
	})
}
