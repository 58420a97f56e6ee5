// Package flip implements the biased flip rule. An active site rolls a d4 and
// ends up occupied only if the roll does not exceed its count of occupied
// neighbour edges.
package flip

import (
	"mad-kmc/internal/core"
	"mad-kmc/internal/kmc"
	"mad-kmc/internal/lattice"
)

// Name is the registry key.
const Name = "flip"

var occupant = lattice.Labelled(1)

// Flip is the d4 flip rule.
type Flip struct {
	cfg Config
}

// New returns a flip rule.
func New(cfg Config) *Flip { return &Flip{cfg: cfg} }

// Name identifies the rule.
func (f *Flip) Name() string { return Name }

// Init lays out the configured baseline.
func (f *Flip) Init(l *lattice.Lattice, r kmc.Rand) error {
	if f.cfg.Init == "random" {
		l.FillRandom(f.cfg.Density, r, occupant)
		return nil
	}
	l.SeedCentre(occupant)
	return nil
}

// Rate is one unit per active site.
func (f *Flip) Rate(_ *lattice.Lattice, active *lattice.ActiveIndex) float64 {
	return kmc.ActiveRate(active)
}

// Apply rolls r in [1,4]; the site is occupied afterwards iff r <= weight.
// An occupied site that stays occupied keeps its cell.
func (f *Flip) Apply(l *lattice.Lattice, site lattice.Coord, weight int, r kmc.Rand) []lattice.Update {
	roll := r.IntN(4) + 1
	next := lattice.Vacant
	if roll <= weight {
		next = l.At(site)
		if !next.Occupied() {
			next = occupant
		}
	}
	return []lattice.Update{l.Set(site, next)}
}

// Reseed occupies the centre site after extinction.
func (f *Flip) Reseed(l *lattice.Lattice, _ kmc.Rand) []lattice.Update {
	return []lattice.Update{l.Set(l.Centre(), occupant)}
}

// Parameters reports the rule configuration.
func (f *Flip) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Flip",
		Params: []core.Parameter{
			core.StringParam("init", "Initial layout", f.cfg.Init),
			core.FloatParam("density", "Random density", f.cfg.Density),
		},
	}}}
}

func init() {
	kmc.Register(Name, func(cfg map[string]string) (kmc.Rule, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return New(c), nil
	})
}
