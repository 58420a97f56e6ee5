package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"mad-kmc/internal/config"
	"mad-kmc/internal/kmc"
	"mad-kmc/internal/report"
	_ "mad-kmc/internal/sims/flip"
	_ "mad-kmc/internal/sims/migrate"
	_ "mad-kmc/internal/sims/stratify"
	_ "mad-kmc/internal/sims/voter"
	"mad-kmc/pkg/core"
)

type scenario struct {
	size    int
	horizon float64
}

func (s scenario) String() string {
	return fmt.Sprintf("n=%d t=%g", s.size, s.horizon)
}

type scenarioResult struct {
	scenario
	trials    int
	extinct   int
	meanClone float64
	maxClone  int
	meanPop   float64
	events    uint64
	err       error
}

type sweepFlags struct {
	sizes string
	times string
	pool  int
}

func (f *sweepFlags) bind(fs *flag.FlagSet) {
	fs.StringVar(&f.sizes, "sizes", f.sizes, "comma-separated lattice sizes")
	fs.StringVar(&f.times, "times", f.times, "comma-separated horizons")
	fs.IntVar(&f.pool, "pool", f.pool, "number of scenario worker goroutines")
}

func main() {
	sf := &sweepFlags{sizes: "16,32,64", times: "1,10,100", pool: runtime.NumCPU()}
	cfg, err := config.ParseWith("kmc-sweep", os.Args[1:], os.Stderr, sf.bind)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	sizes, err := parseInts(sf.sizes)
	if err != nil {
		log.Fatalf("sizes: %v", err)
	}
	times, err := parseFloats(sf.times)
	if err != nil {
		log.Fatalf("times: %v", err)
	}
	if _, err := kmc.Lookup(cfg.Rule, cfg.Params); err != nil {
		log.Fatal(err)
	}

	var sets []scenario
	for _, n := range sizes {
		for _, t := range times {
			sets = append(sets, scenario{size: n, horizon: t})
		}
	}
	if err := sweep(os.Stdout, cfg, sets, sf.pool); err != nil {
		log.Fatal(err)
	}
}

func sweep(w io.Writer, cfg *config.Run, sets []scenario, workers int) error {
	if workers <= 0 {
		workers = 1
	}
	policy, err := kmc.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Sweeping %d scenarios of %s (%d workers, %d runs each)\n", len(sets), cfg.Rule, workers, cfg.Runs)

	jobs := make(chan scenario)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(cfg, policy, sc)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, sc := range sets {
			jobs <- sc
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	var firstErr error
	for res := range results {
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", res.scenario, res.err)
		}
		all = append(all, res)
	}
	if firstErr != nil {
		return firstErr
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].size != all[j].size {
			return all[i].size < all[j].size
		}
		return all[i].horizon < all[j].horizon
	})
	for _, res := range all {
		fmt.Fprintf(w, "%-16s trials=%d extinct=%d meanClone=%.3f maxClone=%d meanPop=%.1f events=%d\n",
			res.scenario, res.trials, res.extinct, res.meanClone, res.maxClone, res.meanPop, res.events)
	}
	fmt.Fprintf(w, "\nelapsed %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// runScenario runs every trial of one scenario on a single stream, so a
// scenario's numbers do not depend on how the pool schedules it.
func runScenario(cfg *config.Run, policy kmc.Policy, sc scenario) scenarioResult {
	out := scenarioResult{scenario: sc}
	engCfg := kmc.Config{Size: sc.size, Horizon: sc.horizon, Policy: policy}
	results, err := kmc.RunTrials(cfg.Runs, 1, cfg.Seed, func(trial int, rng *core.RNG) (kmc.Result, error) {
		rule, err := kmc.Lookup(cfg.Rule, cfg.Params)
		if err != nil {
			return kmc.Result{}, err
		}
		eng, err := kmc.New(engCfg, rule, rng)
		if err != nil {
			return kmc.Result{}, err
		}
		return eng.Run()
	})
	if err != nil {
		out.err = err
		return out
	}

	dist := report.NewDistribution()
	pop := 0
	for _, res := range results {
		if res.Population == 0 {
			out.extinct++
		}
		pop += res.Population
		out.events += res.Events
		dist.Add(res.Clones)
	}
	out.trials = len(results)
	out.meanClone = dist.Mean()
	out.maxClone = dist.Max
	if out.trials > 0 {
		out.meanPop = float64(pop) / float64(out.trials)
	}
	return out
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list %q", s)
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list %q", s)
	}
	return out, nil
}
