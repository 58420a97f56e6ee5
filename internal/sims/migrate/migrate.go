// Package migrate implements the A/B division model. A differentiated (B)
// site leaves the tissue; the vacancy it leaves random-walks through B cells
// until it meets a progenitor (A), which divides into the hole.
package migrate

import (
	"errors"

	"mad-kmc/internal/core"
	"mad-kmc/internal/kmc"
	"mad-kmc/internal/lattice"
)

// Name is the registry key.
const Name = "migrate"

// ErrRestartSize rejects PolicyRestart on a 1x1 lattice.
var ErrRestartSize = errors.New("migrate: restart needs a side of at least 2")

// Migrate is the A/B rule.
type Migrate struct {
	cfg Config
}

// New returns a migrate rule.
func New(cfg Config) *Migrate { return &Migrate{cfg: cfg} }

// Name identifies the rule.
func (m *Migrate) Name() string { return Name }

// Init scatters progenitors with the configured density and labels them.
func (m *Migrate) Init(l *lattice.Lattice, r kmc.Rand) error {
	l.FillRandom(m.cfg.Density, r, lattice.Progenitor(0))
	l.Relabel()
	return nil
}

// Eligible selects B sites.
func (m *Migrate) Eligible(c lattice.Cell) bool { return !c.IsProgenitor() }

// Rate is the B count while both types are present, zero otherwise.
func (m *Migrate) Rate(l *lattice.Lattice, active *lattice.ActiveIndex) float64 {
	nB := active.Len()
	if nB == 0 || nB == l.Area() {
		return 0
	}
	return float64(nB)
}

// Apply removes the B cell at site and walks the vacancy until a progenitor
// divides into it.
func (m *Migrate) Apply(l *lattice.Lattice, site lattice.Coord, _ int, r kmc.Rand) []lattice.Update {
	var updates []lattice.Update
	hole := site
	for {
		nbs := l.Neighbors(hole)
		next := nbs[r.IntN(len(nbs))]
		a := l.At(next)
		if !a.IsProgenitor() {
			// A B cell slides into the hole, which moves on.
			updates = append(updates, l.Set(hole, a))
			hole = next
			continue
		}
		return append(updates, m.divide(l, hole, next, r)...)
	}
}

// divide splits the progenitor at src into src and the hole at dst.
func (m *Migrate) divide(l *lattice.Lattice, dst, src lattice.Coord, r kmc.Rand) []lattice.Update {
	a := l.At(src)
	sym := m.cfg.Symmetric
	switch c := r.Float64(); {
	case c < sym:
		// AA
		return []lattice.Update{l.Set(dst, a)}
	case c < 0.5:
		// AB
		return []lattice.Update{l.Set(dst, a.Differentiate())}
	case c < 1-sym:
		// BA
		return []lattice.Update{l.Set(dst, a), l.Set(src, a.Differentiate())}
	default:
		// BB
		return []lattice.Update{l.Set(src, a.Differentiate()), l.Set(dst, a.Differentiate())}
	}
}

// Validate rejects restart runs on a single site, where both types can
// never coexist.
func (m *Migrate) Validate(cfg kmc.Config) error {
	if cfg.Policy == kmc.PolicyRestart && cfg.Size < 2 {
		return ErrRestartSize
	}
	return nil
}

// Reseed brings back the missing type at the centre. A lattice without B
// cells differentiates the centre progenitor; one without progenitors turns
// the centre cell back into one, keeping its label.
func (m *Migrate) Reseed(l *lattice.Lattice, _ kmc.Rand) []lattice.Update {
	c := l.Centre()
	cell := l.At(c)
	if cell.IsProgenitor() {
		return []lattice.Update{l.Set(c, cell.Differentiate())}
	}
	return []lattice.Update{l.Set(c, lattice.Progenitor(cell.Label()))}
}

// Warmup is the equilibration horizon.
func (m *Migrate) Warmup() float64 { return m.cfg.Warmup }

// Relabel gives progenitors fresh sequential labels after equilibration.
func (m *Migrate) Relabel(l *lattice.Lattice) { l.Relabel() }

// Parameters reports the rule configuration.
func (m *Migrate) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Migrate",
		Params: []core.Parameter{
			core.FloatParam("density", "Progenitor density", m.cfg.Density),
			core.FloatParam("sym", "Symmetric division", m.cfg.Symmetric),
			core.FloatParam("warmup", "Warm-up time", m.cfg.Warmup),
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
