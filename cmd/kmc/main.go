package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"mad-kmc/internal/config"
	"mad-kmc/internal/kmc"
	"mad-kmc/internal/lattice"
	"mad-kmc/internal/render"
	"mad-kmc/internal/report"
	"mad-kmc/internal/resultsdb"
	_ "mad-kmc/internal/sims/flip"
	_ "mad-kmc/internal/sims/migrate"
	_ "mad-kmc/internal/sims/stratify"
	_ "mad-kmc/internal/sims/voter"
	"mad-kmc/internal/trace"
	"mad-kmc/pkg/core"
)

func main() {
	logger := log.New(os.Stderr, "[kmc] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Parse("kmc", os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if _, err := kmc.Lookup(cfg.Rule, cfg.Params); err != nil {
		fmt.Fprintln(os.Stderr, err)
		config.Usage("kmc", os.Stderr)
		os.Exit(2)
	}

	if err := run(cfg, os.Stdout, logger); err != nil {
		if errors.Is(err, kmc.ErrConfig) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		logger.Fatal(err)
	}
}

// firstTrial keeps what the per-run outputs need from trial 0.
type firstTrial struct {
	lat     *lattice.Lattice
	trailer int
}

func run(cfg *config.Run, stdout io.Writer, logger *log.Logger) (err error) {
	engCfg, err := cfg.Engine()
	if err != nil {
		return err
	}
	cfg.Policy = engCfg.Policy.String()
	seed := cfg.Seed
	if seed == 0 {
		if seed, err = core.SeedFromEntropy(); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	logger.Printf("rule=%s n=%d time=%g runs=%d workers=%d policy=%s seed=%d params=%v",
		cfg.Rule, cfg.Size, cfg.Horizon, cfg.Runs, cfg.Workers, cfg.Policy, seed, cfg.ParamList())

	var tw *trace.Writer
	if cfg.Trace != "" {
		if tw, err = trace.Create(cfg.Trace); err != nil {
			return err
		}
		defer func() {
			if cerr := tw.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("close trace: %w", cerr)
			}
		}()
	}

	var frames *render.FrameRecorder
	if cfg.Frames != "" {
		if frames, err = render.NewFrameRecorder(cfg.Frames); err != nil {
			return err
		}
	}

	var first firstTrial
	start := time.Now()
	results, err := kmc.RunTrials(cfg.Runs, cfg.Workers, seed, func(trial int, rng *core.RNG) (kmc.Result, error) {
		rule, err := kmc.Lookup(cfg.Rule, cfg.Params)
		if err != nil {
			return kmc.Result{}, err
		}
		var recs []kmc.Recorder
		var tr *trace.Recorder
		if tw != nil {
			tr = tw.Recorder(trial)
			recs = append(recs, tr)
		}
		if trial == 0 && frames != nil {
			recs = append(recs, frames)
		}
		eng, err := kmc.New(engCfg, rule, rng, recs...)
		if err != nil {
			return kmc.Result{}, err
		}
		res, err := eng.Run()
		if err != nil {
			return res, err
		}
		if tr != nil {
			if err := tr.Finish(res); err != nil {
				return res, fmt.Errorf("trace: %w", err)
			}
		}
		if trial == 0 {
			first.lat = eng.Lattice().Clone()
			first.trailer = -1
			if _, ok := rule.(kmc.CandidateRule); ok {
				first.trailer = eng.Active().Len()
			}
		}
		return res, nil
	})
	if err != nil {
		return err
	}
	logger.Printf("%d trials finished in %s", len(results), time.Since(start).Round(time.Millisecond))

	dist := report.NewDistribution()
	for _, res := range results {
		if cfg.SkipExtinct && res.Population == 0 {
			continue
		}
		dist.Add(res.Clones)
		if err := report.WriteClones(stdout, res.Clones); err != nil {
			return fmt.Errorf("write clones: %w", err)
		}
	}
	logger.Printf("%d clones, mean size %.3f", dist.Clones, dist.Mean())

	if first.lat != nil {
		if cfg.Snapshot != "" {
			if err := render.WriteSnapshotFile(cfg.Snapshot, first.lat, first.trailer); err != nil {
				return err
			}
		}
		if cfg.Picture != "" {
			if err := render.WritePicture(cfg.Picture, first.lat); err != nil {
				return err
			}
		}
	}
	if frames != nil {
		logger.Printf("wrote %d frames to %s", frames.Written(), cfg.Frames)
	}

	if cfg.Chart != "" {
		switch err := writeChart(cfg, dist); {
		case errors.Is(err, report.ErrNoData):
			logger.Printf("chart skipped: %v", err)
		case err != nil:
			return err
		}
	}
	if cfg.DB != "" {
		if err := record(cfg, seed, results); err != nil {
			return err
		}
	}
	return nil
}

func writeChart(cfg *config.Run, dist *report.Distribution) (err error) {
	f, err := os.Create(cfg.Chart)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close chart: %w", cerr)
		}
	}()
	title := fmt.Sprintf("%s n=%d t=%g", cfg.Rule, cfg.Size, cfg.Horizon)
	return report.RenderChart(f, dist, title)
}

func record(cfg *config.Run, seed int64, results []kmc.Result) error {
	ctx := context.Background()
	db, err := resultsdb.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	id, err := db.BeginRun(ctx, resultsdb.Run{
		Rule:    cfg.Rule,
		Size:    cfg.Size,
		Horizon: cfg.Horizon,
		Policy:  cfg.Policy,
		Runs:    cfg.Runs,
		Seed:    seed,
		Params:  cfg.Params,
	})
	if err != nil {
		return err
	}
	for i, res := range results {
		if err := db.RecordTrial(ctx, id, i, res); err != nil {
			return err
		}
	}
	return nil
}
