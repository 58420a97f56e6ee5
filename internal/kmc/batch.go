package kmc

import (
	"fmt"
	"sync"

	"mad-kmc/pkg/core"
)

// TrialFunc runs one trial with the generator it is handed.
type TrialFunc func(trial int, rng *core.RNG) (Result, error)

// RunTrials runs fn for trials 0..runs-1 and returns the results in trial
// order.
//
// With workers <= 1 the trials run one after another on a single generator
// seeded with seed, so each trial continues the stream the previous one left
// off. With more workers every trial gets its own generator, seeded from a
// master stream in trial order, and the outcome does not depend on scheduling.
func RunTrials(runs, workers int, seed int64, fn TrialFunc) ([]Result, error) {
	if runs < 0 {
		return nil, fmt.Errorf("%w: run count %d", ErrConfig, runs)
	}
	results := make([]Result, runs)
	if workers <= 1 {
		rng := core.NewRNG(seed)
		for i := 0; i < runs; i++ {
			res, err := fn(i, rng)
			if err != nil {
				return results[:i], fmt.Errorf("trial %d: %w", i, err)
			}
			results[i] = res
		}
		return results, nil
	}

	master := core.NewRNG(seed)
	seeds := make([]int64, runs)
	for i := range seeds {
		seeds[i] = master.Int64()
	}

	type outcome struct {
		trial int
		res   Result
		err   error
	}
	jobs := make(chan int)
	out := make(chan outcome)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for trial := range jobs {
				res, err := fn(trial, core.NewRNG(seeds[trial]))
				out <- outcome{trial: trial, res: res, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	go func() {
		for i := 0; i < runs; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	firstErr := -1
	errs := make([]error, runs)
	for o := range out {
		results[o.trial] = o.res
		if o.err != nil {
			errs[o.trial] = o.err
			if firstErr < 0 || o.trial < firstErr {
				firstErr = o.trial
			}
		}
	}
	if firstErr >= 0 {
		return results[:firstErr], fmt.Errorf("trial %d: %w", firstErr, errs[firstErr])
	}
	return results, nil
}
