package trace

import (
	"path/filepath"
	"testing"

	"mad-kmc/internal/kmc"
	"mad-kmc/internal/lattice"
	"mad-kmc/internal/sims/voter"
	"mad-kmc/pkg/core"
)

func TestTraceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run.jsonl.zst")
	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}

	rec := w.Recorder(3)
	cfg := voter.DefaultConfig()
	cfg.Init = voter.InitHilbert
	eng, err := kmc.New(kmc.Config{Size: 4, Horizon: 1}, voter.New(cfg), core.NewRNG(8), rec)
	if err != nil {
		t.Fatal(err)
	}
	res, err := eng.Run()
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Finish(res); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(Entry{Kind: KindEvent}); err == nil {
		t.Fatal("write after close succeeded")
	}

	var events []Entry
	var summary *kmc.Result
	err = Scan(path, func(e Entry) error {
		if e.Trial != 3 {
			t.Fatalf("entry for trial %d", e.Trial)
		}
		switch e.Kind {
		case KindEvent:
			events = append(events, e)
		case KindTrial:
			summary = e.Result
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if uint64(len(events)) != res.Events {
		t.Fatalf("decoded %d events, run applied %d", len(events), res.Events)
	}
	for i, e := range events {
		if e.Seq != uint64(i+1) {
			t.Fatalf("event %d has seq %d", i, e.Seq)
		}
		if i > 0 && e.Time < events[i-1].Time {
			t.Fatalf("event %d out of order", i)
		}
	}
	if summary == nil || summary.Events != res.Events || len(summary.Clones) != len(res.Clones) {
		t.Fatalf("summary %+v, want %+v", summary, res)
	}

	if len(events) > 0 {
		last := events[len(events)-1]
		got := eng.Lattice().At(lattice.Coord{I: last.I, J: last.J})
		if uint32(got) != last.State {
			t.Fatalf("last event state %d, lattice holds %d", last.State, uint32(got))
		}
	}
}
