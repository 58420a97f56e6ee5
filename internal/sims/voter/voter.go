// Package voter implements the pure-copy voter rule: an active site copies
// the state of a uniformly chosen 4-neighbour.
package voter

import (
	"mad-kmc/internal/core"
	"mad-kmc/internal/kmc"
	"mad-kmc/internal/lattice"
)

// Name is the registry key.
const Name = "voter"

// occupant marks unlabelled occupancy.
var occupant = lattice.Labelled(1)

// Voter is the copy rule.
type Voter struct {
	cfg Config
}

// New returns a voter rule.
func New(cfg Config) *Voter { return &Voter{cfg: cfg} }

// Name identifies the rule.
func (v *Voter) Name() string { return Name }

// Init lays out the configured baseline.
func (v *Voter) Init(l *lattice.Lattice, r kmc.Rand) error {
	switch v.cfg.Init {
	case InitHilbert:
		return l.FillHilbert()
	case InitRandom:
		l.FillRandom(v.cfg.Density, r, occupant)
	default:
		l.SeedCentre(occupant)
	}
	return nil
}

// Rate is one unit per active site.
func (v *Voter) Rate(_ *lattice.Lattice, active *lattice.ActiveIndex) float64 {
	return kmc.ActiveRate(active)
}

// Apply copies a random neighbour's cell into site.
func (v *Voter) Apply(l *lattice.Lattice, site lattice.Coord, _ int, r kmc.Rand) []lattice.Update {
	nbs := l.Neighbors(site)
	src := nbs[r.IntN(len(nbs))]
	return []lattice.Update{l.Set(site, l.At(src))}
}

// Reseed occupies the centre site after extinction. Voter lattices only go
// quiescent once every site is vacant.
func (v *Voter) Reseed(l *lattice.Lattice, _ kmc.Rand) []lattice.Update {
	return []lattice.Update{l.Set(l.Centre(), occupant)}
}

// Parameters reports the rule configuration.
func (v *Voter) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Voter",
		Params: []core.Parameter{
			core.StringParam("init", "Initial layout", v.cfg.Init),
			core.FloatParam("density", "Random density", v.cfg.Density),
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
