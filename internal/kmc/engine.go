// Package kmc runs continuous-time kinetic Monte Carlo on a toroidal lattice.
//
// An Engine owns one lattice, its active-site index and a random stream. Each
// step draws a waiting time from an exponential distribution whose rate the
// rule derives from the current state, picks an active site uniformly, lets
// the rule apply its transition, and then brings the index up to date from
// the updates the rule reports.
package kmc

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"mad-kmc/internal/lattice"
)

var (
	// ErrConfig wraps configuration problems detected before a run starts.
	ErrConfig = errors.New("kmc: invalid configuration")
	// ErrInvariant wraps bookkeeping violations detected during a run.
	ErrInvariant = errors.New("kmc: invariant violated")
)

// Policy selects what happens when the active set empties.
type Policy int

const (
	// PolicyTerminate ends the run on quiescence.
	PolicyTerminate Policy = iota
	// PolicyRestart reseeds a single active site, resets the clock and
	// carries on until the horizon is reached.
	PolicyRestart
)

func (p Policy) String() string {
	switch p {
	case PolicyTerminate:
		return "terminate"
	case PolicyRestart:
		return "restart"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "terminate":
		return PolicyTerminate, nil
	case "restart":
		return PolicyRestart, nil
	}
	return 0, fmt.Errorf("%w: unknown policy %q", ErrConfig, s)
}

// State is the engine's position in its lifecycle.
type State int

const (
	StateRunning State = iota
	StateActive
	StateQuiescent
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateActive:
		return "active"
	case StateQuiescent:
		return "quiescent"
	case StateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Config holds the run parameters shared by every rule.
type Config struct {
	Size    int
	Horizon float64
	Policy  Policy
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if c.Size <= 0 || c.Size > lattice.MaxSize {
		return fmt.Errorf("%w: lattice size %d", ErrConfig, c.Size)
	}
	if math.IsNaN(c.Horizon) || math.IsInf(c.Horizon, 0) || c.Horizon < 0 {
		return fmt.Errorf("%w: horizon %v", ErrConfig, c.Horizon)
	}
	if c.Policy != PolicyTerminate && c.Policy != PolicyRestart {
		return fmt.Errorf("%w: policy %v", ErrConfig, c.Policy)
	}
	return nil
}

// Result summarises a finished run.
type Result struct {
	Rule       string  `json:"rule"`
	Time       float64 `json:"time"`
	Events     uint64  `json:"events"`
	Restarts   int     `json:"restarts"`
	Population int     `json:"population"`
	Active     int     `json:"active"`
	Clones     []Clone `json:"clones"`
	State      State   `json:"state"`
}

// Engine drives one simulation run.
type Engine struct {
	cfg  Config
	rule Rule
	rng  Rand
	recs []Recorder

	lat      *lattice.Lattice
	idx      *lattice.ActiveIndex
	eligible func(lattice.Cell) bool

	ready     bool
	warmingUp bool
	horizon   float64
	time      float64
	state     State
	events    uint64
	restarts  int
}

// New validates cfg against rule and allocates the engine. The lattice is
// populated by Reset (or lazily by the first Step or Run).
func New(cfg Config, rule Rule, rng Rand, recs ...Recorder) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, fmt.Errorf("%w: nil rule", ErrConfig)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrConfig)
	}
	if _, ok := rule.(Reseeder); !ok && cfg.Policy == PolicyRestart {
		return nil, fmt.Errorf("%w: %s cannot reseed, policy restart unsupported", ErrConfig, rule.Name())
	}
	if v, ok := rule.(Validator); ok {
		if err := v.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfig, rule.Name(), err)
		}
	}
	lat, err := lattice.New(cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	e := &Engine{
		cfg:  cfg,
		rule: rule,
		rng:  rng,
		recs: recs,
		lat:  lat,
		idx:  lattice.NewActiveIndex(cfg.Size),
	}
	if cr, ok := rule.(CandidateRule); ok {
		e.eligible = cr.Eligible
	}
	return e, nil
}

// Rule returns the engine's transition rule.
func (e *Engine) Rule() Rule { return e.rule }

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Lattice exposes the live lattice. Callers must not mutate it.
func (e *Engine) Lattice() *lattice.Lattice { return e.lat }

// Active exposes the live active-site index. Callers must not mutate it.
func (e *Engine) Active() *lattice.ActiveIndex { return e.idx }

// Time returns the simulation time of the last applied event in the current
// phase.
func (e *Engine) Time() float64 { return e.time }

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Events returns the number of events applied in the measured phase.
func (e *Engine) Events() uint64 { return e.events }

// Restarts returns how many times the restart policy reseeded the lattice.
func (e *Engine) Restarts() int { return e.restarts }

// WarmingUp reports whether the engine is still in the warm-up phase.
func (e *Engine) WarmingUp() bool { return e.warmingUp }

// Reset rebuilds the lattice from the rule baseline and rewinds the clock.
func (e *Engine) Reset() (err error) {
	defer recoverInvariant(&err)
	return e.reset()
}

func (e *Engine) reset() error {
	e.lat.Clear()
	if err := e.rule.Init(e.lat, e.rng); err != nil {
		return fmt.Errorf("init %s: %w", e.rule.Name(), err)
	}
	e.rebuild()
	e.time = 0
	e.events = 0
	e.restarts = 0
	e.state = StateRunning
	e.horizon = e.cfg.Horizon
	e.warmingUp = false
	if eq, ok := e.rule.(Equilibrator); ok && eq.Warmup() > 0 {
		e.warmingUp = true
		e.horizon = eq.Warmup()
	}
	e.ready = true
	return nil
}

// Step advances the engine by one iteration of its state machine: one event,
// one quiescence decision, or the transition out of a finished phase.
func (e *Engine) Step() (st State, err error) {
	defer recoverInvariant(&err)
	if !e.ready {
		if err := e.reset(); err != nil {
			return e.state, err
		}
	}
	if e.state == StateTerminated {
		return e.state, nil
	}
	if err := e.step(); err != nil {
		return e.state, err
	}
	return e.state, nil
}

// Run resets the engine and steps it until it terminates.
func (e *Engine) Run() (res Result, err error) {
	defer recoverInvariant(&err)
	if err := e.reset(); err != nil {
		return Result{}, err
	}
	for e.state != StateTerminated {
		if err := e.step(); err != nil {
			return e.Result(), err
		}
	}
	return e.Result(), nil
}

// Result summarises the current state.
func (e *Engine) Result() Result {
	return Result{
		Rule:       e.rule.Name(),
		Time:       e.time,
		Events:     e.events,
		Restarts:   e.restarts,
		Population: e.lat.Population(),
		Active:     e.idx.Len(),
		Clones:     Clones(e.lat),
		State:      e.state,
	}
}

func (e *Engine) step() error {
	rate := e.rule.Rate(e.lat, e.idx)
	if !(rate > 0) {
		e.state = StateQuiescent
		if e.cfg.Policy == PolicyRestart {
			return e.restart()
		}
		e.endPhase()
		return nil
	}
	e.state = StateActive

	// The draw is consumed even when it crosses the horizon; the pending
	// event is then discarded, so the final lattice is the state just before
	// the horizon.
	next := e.time + e.rng.ExpFloat64()/rate
	if next >= e.horizon {
		e.endPhase()
		return nil
	}
	e.time = next

	site := e.idx.Sample(e.rng)
	updates := e.rule.Apply(e.lat, site, e.idx.Weight(site), e.rng)
	for _, u := range updates {
		e.track(u)
	}
	if e.warmingUp {
		return nil
	}
	e.events++
	for _, u := range updates {
		ev := Event{Seq: e.events, Time: e.time, Site: u.Site, State: u.New, Restart: e.restarts}
		for _, rec := range e.recs {
			if err := rec.Record(ev, e.lat); err != nil {
				return fmt.Errorf("record event %d: %w", ev.Seq, err)
			}
		}
	}
	return nil
}

// endPhase closes the warm-up phase or terminates the run.
func (e *Engine) endPhase() {
	if !e.warmingUp {
		e.state = StateTerminated
		return
	}
	e.warmingUp = false
	if eq, ok := e.rule.(Equilibrator); ok {
		eq.Relabel(e.lat)
	}
	e.rebuild()
	e.time = 0
	e.horizon = e.cfg.Horizon
	e.state = StateRunning
}

// restart revives a quiescent lattice through the rule's Reseed. New only
// admits PolicyRestart for Reseeders.
func (e *Engine) restart() error {
	for _, u := range e.rule.(Reseeder).Reseed(e.lat, e.rng) {
		e.track(u)
	}
	e.restarts++
	e.time = 0
	e.state = StateRunning
	if !(e.rule.Rate(e.lat, e.idx) > 0) {
		return fmt.Errorf("%w: reseed of %s left no active sites", ErrInvariant, e.rule.Name())
	}
	return nil
}

func recoverInvariant(err *error) {
	r := recover()
	if r == nil {
		return
	}
	var ie *lattice.InvariantError
	if e, ok := r.(error); ok && errors.As(e, &ie) {
		*err = fmt.Errorf("%w: %v", ErrInvariant, ie)
		return
	}
	panic(r)
}
