// Package config assembles the run configuration from defaults, an optional
// YAML file and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"mad-kmc/internal/kmc"
	"mad-kmc/internal/lattice"
)

// ErrInvalid wraps every configuration error.
var ErrInvalid = errors.New("config: invalid")

// Run is everything one batch invocation needs.
type Run struct {
	Rule    string
	Size    int
	Horizon float64
	Runs    int
	Seed    int64
	Workers int
	Policy  string
	Params  map[string]string

	SkipExtinct bool

	Picture  string
	Snapshot string
	Frames   string
	Trace    string
	DB       string
	Chart    string

	File string
}

// Defaults returns a Run populated with the baseline values.
func Defaults() *Run {
	return &Run{
		Rule:    "voter",
		Size:    64,
		Horizon: 10,
		Runs:    1,
		Workers: 1,
		Policy:  kmc.PolicyTerminate.String(),
		Params:  map[string]string{},
	}
}

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("want key=value, got %q", value)
	}
	*l = append(*l, value)
	return nil
}

// Bind attaches the configuration to the provided FlagSet. Rule parameters
// given with -set are collected into overrides.
func (r *Run) Bind(fs *flag.FlagSet, overrides *kvList) {
	fs.StringVar(&r.Rule, "rule", r.Rule, "transition rule ("+strings.Join(kmc.Rules(), ", ")+")")
	fs.IntVar(&r.Size, "n", r.Size, "lattice side length")
	fs.Float64Var(&r.Horizon, "time", r.Horizon, "simulation time horizon")
	fs.IntVar(&r.Runs, "runs", r.Runs, "number of independent trials")
	fs.Int64Var(&r.Seed, "seed", r.Seed, "random seed (0 reads one from the OS)")
	fs.IntVar(&r.Workers, "workers", r.Workers, "parallel trials; 1 keeps a single continuing random stream")
	fs.StringVar(&r.Policy, "policy", r.Policy, "quiescence policy (terminate or restart)")
	fs.BoolVar(&r.SkipExtinct, "skip-extinct", r.SkipExtinct, "leave extinct trials out of the histogram output")
	fs.StringVar(&r.Picture, "picture", r.Picture, "write a PPM (or .png) picture of the first trial")
	fs.StringVar(&r.Snapshot, "snapshot", r.Snapshot, "write the raw final grid of the first trial")
	fs.StringVar(&r.Frames, "frames", r.Frames, "write one PBM frame per event of the first trial into this directory")
	fs.StringVar(&r.Trace, "trace", r.Trace, "write a zstd JSONL event trace")
	fs.StringVar(&r.DB, "db", r.DB, "record results in this SQLite database")
	fs.StringVar(&r.Chart, "chart", r.Chart, "write a clone-size distribution chart (PNG)")
	fs.StringVar(&r.File, "config", r.File, "YAML configuration file")
	fs.Var(overrides, "set", "rule parameter in key=value form (repeatable)")
}

// Parse builds a Run from args. Values from a -config file replace the
// defaults; flags given explicitly replace file values.
func Parse(name string, args []string, output io.Writer) (*Run, error) {
	return ParseWith(name, args, output, nil)
}

// ParseWith is Parse with extra flags bound by the caller, such as the
// viewer's display settings.
func ParseWith(name string, args []string, output io.Writer, extra func(*flag.FlagSet)) (*Run, error) {
	r := Defaults()
	var sets kvList
	fs := newFlagSet(name, output)
	r.Bind(fs, &sets)
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if r.File != "" {
		base := Defaults()
		if err := LoadFile(r.File, base); err != nil {
			return nil, err
		}
		base.File = r.File
		sets = nil
		fs = newFlagSet(name, output)
		base.Bind(fs, &sets)
		if extra != nil {
			extra(fs)
		}
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		r = base
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrInvalid, fs.Args())
	}
	for _, kv := range sets {
		parts := strings.SplitN(kv, "=", 2)
		r.Params[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func newFlagSet(name string, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	return fs
}

// Validate reports configuration errors before any lattice is built.
func (r *Run) Validate() error {
	var problems []string
	if r.Rule == "" {
		problems = append(problems, "rule is empty")
	}
	if r.Size <= 0 || r.Size > lattice.MaxSize {
		problems = append(problems, fmt.Sprintf("n must be in [1, %d], got %d", lattice.MaxSize, r.Size))
	}
	if math.IsNaN(r.Horizon) || math.IsInf(r.Horizon, 0) || r.Horizon < 0 {
		problems = append(problems, fmt.Sprintf("time must be finite and non-negative, got %v", r.Horizon))
	}
	if r.Runs <= 0 {
		problems = append(problems, fmt.Sprintf("runs must be positive, got %d", r.Runs))
	}
	if r.Workers < 0 {
		problems = append(problems, fmt.Sprintf("workers must be non-negative, got %d", r.Workers))
	}
	if _, err := kmc.ParsePolicy(r.Policy); err != nil {
		problems = append(problems, fmt.Sprintf("policy %q is not terminate or restart", r.Policy))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Engine returns the engine configuration.
func (r *Run) Engine() (kmc.Config, error) {
	p, err := kmc.ParsePolicy(r.Policy)
	if err != nil {
		return kmc.Config{}, err
	}
	return kmc.Config{Size: r.Size, Horizon: r.Horizon, Policy: p}, nil
}

// ParamList renders Params as sorted key=value pairs.
func (r *Run) ParamList() []string {
	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k + "=" + r.Params[k]
	}
	return out
}

// Usage prints the flag summary to w.
func Usage(name string, w io.Writer) {
	var sets kvList
	fs := newFlagSet(name, w)
	Defaults().Bind(fs, &sets)
	fmt.Fprintf(w, "Usage of %s:\n", name)
	fs.PrintDefaults()
}
