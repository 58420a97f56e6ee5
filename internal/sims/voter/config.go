package voter

import (
	"fmt"
	"strconv"
)

// Initial layouts.
const (
	InitSeed    = "seed"
	InitHilbert = "hilbert"
	InitRandom  = "random"
)

// Config controls the voter rule.
type Config struct {
	// Init selects the starting layout: a single seed at the centre, every
	// site carrying its own Hilbert label, or random occupancy.
	Init string
	// Density is the occupancy probability for the random layout.
	Density float64
}

// DefaultConfig returns the single-seed layout.
func DefaultConfig() Config {
	return Config{Init: InitSeed, Density: 0.5}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if v, ok := cfg["init"]; ok {
		switch v {
		case InitSeed, InitHilbert, InitRandom:
			c.Init = v
		default:
			return c, fmt.Errorf("init %q: want %s, %s or %s", v, InitSeed, InitHilbert, InitRandom)
		}
	}
	if v, ok := cfg["density"]; ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return c, fmt.Errorf("density %q: want a probability in [0,1]", v)
		}
		c.Density = parsed
	}
	return c, nil
}
