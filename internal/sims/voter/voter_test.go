package voter

import (
	"errors"
	"testing"

	"mad-kmc/internal/kmc"
	"mad-kmc/internal/lattice"
	"mad-kmc/pkg/core"
)

func TestHorizonZeroAppliesNoEvents(t *testing.T) {
	eng, err := kmc.New(kmc.Config{Size: 4, Horizon: 0}, New(DefaultConfig()), core.NewRNG(1))
	if err != nil {
		t.Fatal(err)
	}
	res, err := eng.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Population != 1 || res.Events != 0 || res.State != kmc.StateTerminated {
		t.Fatalf("result %+v, want population 1, no events, terminated", res)
	}
	if !eng.Lattice().Get(2, 2).Occupied() {
		t.Fatal("seed not at (2,2)")
	}
	if res.Time != 0 {
		t.Fatalf("time advanced to %v without an event", res.Time)
	}
}

func TestPopulationChangesByAtMostOnePerEvent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Init = InitRandom
	cfg.Density = 0.3
	eng, err := kmc.New(kmc.Config{Size: 9, Horizon: 5}, New(cfg), core.NewRNG(42))
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.Reset(); err != nil {
		t.Fatal(err)
	}
	steps := 0
	for eng.State() != kmc.StateTerminated {
		before := eng.Lattice().Population()
		if _, err := eng.Step(); err != nil {
			t.Fatalf("step %d: %v", steps, err)
		}
		after := eng.Lattice().Population()
		if d := after - before; d > 1 || d < -1 {
			t.Fatalf("step %d changed population by %d", steps, d)
		}
		if err := eng.CheckInvariants(); err != nil {
			t.Fatalf("step %d: %v", steps, err)
		}
		steps++
	}
	if eng.Events() == 0 {
		t.Fatal("no events applied before the horizon")
	}
}

func TestHilbertLayoutStaysFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Init = InitHilbert
	log := &kmc.EventLog{}
	eng, err := kmc.New(kmc.Config{Size: 8, Horizon: 0.5}, New(cfg), core.NewRNG(7), log)
	if err != nil {
		t.Fatal(err)
	}
	res, err := eng.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Population != 64 || res.Active != 64 {
		t.Fatalf("population %d active %d, want 64/64", res.Population, res.Active)
	}
	total := 0
	for _, c := range res.Clones {
		total += c.Size
	}
	if total != 64 {
		t.Fatalf("clone sizes sum to %d", total)
	}
	if uint64(len(log.Events)) != res.Events {
		t.Fatalf("recorded %d events, engine counted %d", len(log.Events), res.Events)
	}
	for i := 1; i < len(log.Events); i++ {
		if log.Events[i].Time < log.Events[i-1].Time {
			t.Fatalf("event %d out of time order", i)
		}
	}
	if err := eng.CheckInvariants(); err != nil {
		t.Fatal(err)
	}
}

func TestRegistryBuildsVoter(t *testing.T) {
	rule, err := kmc.Lookup(Name, map[string]string{"init": "hilbert"})
	if err != nil {
		t.Fatal(err)
	}
	l, _ := lattice.New(4)
	if err := rule.Init(l, core.NewRNG(1)); err != nil {
		t.Fatal(err)
	}
	if l.Population() != 16 {
		t.Fatalf("hilbert init populated %d sites", l.Population())
	}

	for _, bad := range []map[string]string{{"init": "spiral"}, {"density": "1.5"}, {"density": "x"}} {
		if _, err := kmc.Lookup(Name, bad); !errors.Is(err, kmc.ErrConfig) {
			t.Fatalf("Lookup(%v) err = %v, want ErrConfig", bad, err)
		}
	}
}

func TestRestartRevivesExtinctRandomLattice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Init = InitRandom
	cfg.Density = 0.2
	rule := New(cfg)
	restarted := 0
	for seed := int64(1); seed <= 200; seed++ {
		eng, err := kmc.New(kmc.Config{Size: 4, Horizon: 20, Policy: kmc.PolicyRestart}, rule, core.NewRNG(seed))
		if err != nil {
			t.Fatal(err)
		}
		res, err := eng.Run()
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if res.Population == 0 || res.State != kmc.StateTerminated {
			t.Fatalf("seed %d: result %+v", seed, res)
		}
		restarted += res.Restarts
	}
	if restarted == 0 {
		t.Fatal("no run went extinct; the restart path was never taken")
	}
}

func TestReseedOccupiesCentre(t *testing.T) {
	l, _ := lattice.New(5)
	updates := New(DefaultConfig()).Reseed(l, core.NewRNG(1))
	if len(updates) != 1 || updates[0].Site != l.Centre() {
		t.Fatalf("updates %+v", updates)
	}
	if l.Population() != 1 || !l.At(l.Centre()).Occupied() {
		t.Fatalf("population %d", l.Population())
	}
}
