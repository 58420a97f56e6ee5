package kmc

import (
	"fmt"
	"sort"
)

// Factory constructs a Rule from an optional string configuration map.
type Factory func(cfg map[string]string) (Rule, error)

var rules = map[string]Factory{}

// Register adds a rule factory under the provided name. Rule packages call it
// from init.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	rules[name] = f
}

// Rules lists the registered rule names in sorted order.
func Rules() []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds the named rule with cfg.
func Lookup(name string, cfg map[string]string) (Rule, error) {
	f, ok := rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown rule %q (available: %v)", ErrConfig, name, Rules())
	}
	rule, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfig, name, err)
	}
	return rule, nil
}
