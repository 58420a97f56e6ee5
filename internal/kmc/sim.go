package kmc

import (
	"fmt"

	simcore "mad-kmc/internal/core"
	"mad-kmc/internal/lattice"
	"mad-kmc/pkg/core"
)

// Sim adapts an engine to the viewer's simulation contract. Every Step
// advances the engine by up to EventsPerTick iterations; a terminated run
// stays frozen until Reset.
type Sim struct {
	cfg   Config
	rule  Rule
	seed  int64
	eng   *Engine
	err   error
	cells []uint8
	label []uint32
	mask  []float32

	EventsPerTick int
}

// NewSim builds a viewer adapter and resets it with seed.
func NewSim(cfg Config, rule Rule, seed int64) (*Sim, error) {
	eng, err := New(cfg, rule, core.NewRNG(seed))
	if err != nil {
		return nil, err
	}
	area := cfg.Size * cfg.Size
	s := &Sim{
		cfg:           cfg,
		rule:          rule,
		eng:           eng,
		cells:         make([]uint8, area),
		label:         make([]uint32, area),
		mask:          make([]float32, area),
		EventsPerTick: 1,
	}
	s.Reset(seed)
	if s.err != nil {
		return nil, s.err
	}
	return s, nil
}

// Name identifies the rule being shown.
func (s *Sim) Name() string { return s.rule.Name() }

// Size returns the lattice dimensions.
func (s *Sim) Size() simcore.Size { return simcore.Size{W: s.cfg.Size, H: s.cfg.Size} }

// Engine exposes the wrapped engine.
func (s *Sim) Engine() *Engine { return s.eng }

// Err returns the error that stopped the run, if any.
func (s *Sim) Err() error { return s.err }

// Reset restarts the run from the rule baseline with a fresh generator.
func (s *Sim) Reset(seed int64) {
	s.seed = seed
	s.eng.rng = core.NewRNG(seed)
	s.err = s.eng.Reset()
}

// Step advances the engine.
func (s *Sim) Step() {
	if s.err != nil {
		return
	}
	n := s.EventsPerTick
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		st, err := s.eng.Step()
		if err != nil {
			s.err = err
			return
		}
		if st == StateTerminated {
			return
		}
	}
}

// Cells reports 0 for vacant or unlabelled cells, 1 for occupied and 2 for
// progenitors.
func (s *Sim) Cells() []uint8 {
	for i, c := range s.eng.lat.Cells() {
		switch {
		case c.IsProgenitor():
			s.cells[i] = 2
		case c.Occupied():
			s.cells[i] = 1
		default:
			s.cells[i] = 0
		}
	}
	return s.cells
}

// Labels returns the label of every cell in row-major order.
func (s *Sim) Labels() []uint32 {
	for i, c := range s.eng.lat.Cells() {
		s.label[i] = c.Label()
	}
	return s.label
}

// ActiveMask returns 1 for pinned active sites and weight/4 for sites active
// only through their neighbours.
func (s *Sim) ActiveMask() []float32 {
	for i := range s.mask {
		s.mask[i] = 0
	}
	for _, c := range s.eng.idx.Members() {
		i := s.eng.lat.Index(c)
		if s.eng.idx.Pinned(c) {
			s.mask[i] = 1
			continue
		}
		w := float32(s.eng.idx.Weight(c)) / 4
		if w > 1 {
			w = 1
		}
		s.mask[i] = w
	}
	return s.mask
}

// Status reports the engine clock and counters.
func (s *Sim) Status() []string {
	lines := []string{
		fmt.Sprintf("t = %.4f", s.eng.Time()),
		fmt.Sprintf("events %d  restarts %d", s.eng.Events(), s.eng.Restarts()),
		fmt.Sprintf("active %d  occupied %d", s.eng.idx.Len(), s.eng.lat.Population()),
		"state " + s.eng.State().String(),
	}
	if s.eng.WarmingUp() {
		lines = append(lines, "warming up")
	}
	if s.err != nil {
		lines = append(lines, "error: "+s.err.Error())
	}
	return lines
}

// Parameters exposes the run settings and the rule's own tunables.
func (s *Sim) Parameters() simcore.ParameterSnapshot {
	snap := simcore.ParameterSnapshot{Groups: []simcore.ParameterGroup{{
		Name: "Run",
		Params: []simcore.Parameter{
			simcore.IntParam("n", "Lattice size", s.cfg.Size),
			simcore.FloatParam("time", "Horizon", s.cfg.Horizon),
			simcore.StringParam("policy", "Quiescence", s.cfg.Policy.String()),
			simcore.Int64Param("seed", "Seed", s.seed),
			simcore.IntParam("events_per_tick", "Events per tick", s.EventsPerTick),
		},
	}}}
	if p, ok := s.rule.(ParameterProvider); ok {
		snap.Groups = append(snap.Groups, p.Parameters().Groups...)
	}
	return snap
}

// ParameterControls lists the HUD-adjustable settings.
func (s *Sim) ParameterControls() []simcore.ParameterControl {
	return []simcore.ParameterControl{{
		Key:    "events_per_tick",
		Label:  "Events per tick",
		Type:   simcore.ParamTypeInt,
		Step:   10,
		Min:    1,
		Max:    100000,
		HasMin: true,
		HasMax: true,
	}}
}

// SetIntParameter updates an integer control.
func (s *Sim) SetIntParameter(key string, value int) bool {
	if key != "events_per_tick" || value <= 0 {
		return false
	}
	s.EventsPerTick = value
	return true
}

// Lattice exposes the live lattice for snapshot writers.
func (s *Sim) Lattice() *lattice.Lattice { return s.eng.lat }

// Progress returns the fraction of the horizon simulated so far. A
// terminated run reports 1.
func (s *Sim) Progress() float64 {
	if s.eng.State() == StateTerminated {
		return 1
	}
	h := s.eng.horizon
	if h <= 0 {
		return 0
	}
	return s.eng.Time() / h
}
