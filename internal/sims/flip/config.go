package flip

import (
	"fmt"
	"strconv"
)

// Config controls the flip rule.
type Config struct {
	// Init is "seed" for a single occupied centre site or "random".
	Init    string
	Density float64
}

// DefaultConfig returns the single-seed layout.
func DefaultConfig() Config {
	return Config{Init: "seed", Density: 0.5}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if v, ok := cfg["init"]; ok {
		if v != "seed" && v != "random" {
			return c, fmt.Errorf("init %q: want seed or random", v)
		}
		c.Init = v
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
