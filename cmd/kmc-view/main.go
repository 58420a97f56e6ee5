//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"mad-kmc/internal/app"
	"mad-kmc/internal/config"
	"mad-kmc/internal/kmc"
	_ "mad-kmc/internal/sims/flip"
	_ "mad-kmc/internal/sims/migrate"
	_ "mad-kmc/internal/sims/stratify"
	_ "mad-kmc/internal/sims/voter"
	"mad-kmc/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	opts := app.NewOptions()
	cfg, err := config.ParseWith("kmc-view", os.Args[1:], os.Stderr, opts.Bind)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	rule, err := kmc.Lookup(cfg.Rule, cfg.Params)
	if err != nil {
		log.Fatal(err)
	}
	engCfg, err := cfg.Engine()
	if err != nil {
		log.Fatal(err)
	}
	seed := cfg.Seed
	if seed == 0 {
		if seed, err = core.SeedFromEntropy(); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	sim, err := kmc.NewSim(engCfg, rule, seed)
	if err != nil {
		log.Fatal(err)
	}
	sim.EventsPerTick = opts.EventsPerStep

	game := app.New(sim, *opts)
	game.Reset(seed)
	opts.Normalize()
	size := sim.Size()

	ebiten.SetWindowTitle("mad-kmc: " + sim.Name())
	ebiten.SetTPS(opts.TPS)
	ebiten.SetWindowSize(size.W*opts.Scale+opts.PanelWidth, size.H*opts.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
