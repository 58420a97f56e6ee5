package migrate

import (
	"fmt"
	"strconv"
)

// Config controls the A/B migration rule.
type Config struct {
	// Density is the probability that a site starts as a progenitor.
	Density float64
	// Symmetric is the probability of each symmetric division (AA and BB);
	// the asymmetric outcomes AB and BA share the remainder.
	Symmetric float64
	// Warmup is the equilibration time run before labels are reassigned and
	// the measured run begins. Zero skips it.
	Warmup float64
}

// DefaultConfig returns the reference parameters.
func DefaultConfig() Config {
	return Config{Density: 0.36, Symmetric: 0.20, Warmup: 10}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if v, ok := cfg["density"]; ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return c, fmt.Errorf("density %q: want a probability in [0,1]", v)
		}
		c.Density = parsed
	}
	if v, ok := cfg["sym"]; ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 || parsed > 0.5 {
			return c, fmt.Errorf("sym %q: want a probability in [0,0.5]", v)
		}
		c.Symmetric = parsed
	}
	if v, ok := cfg["warmup"]; ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return c, fmt.Errorf("warmup %q: want a non-negative time", v)
		}
		c.Warmup = parsed
	}
	return c, nil
}
