package app

import "flag"

// Options holds the viewer's display settings.
type Options struct {
	Scale         int
	TPS           int
	StepsPerSec   int
	EventsPerStep int
	PanelWidth    int
}

// NewOptions returns Options populated with sensible defaults.
func NewOptions() *Options {
	return &Options{Scale: 4, TPS: 60, StepsPerSec: 60, EventsPerStep: 50, PanelWidth: 260}
}

// Bind attaches the options to the provided FlagSet.
func (o *Options) Bind(fs *flag.FlagSet) {
	fs.IntVar(&o.Scale, "scale", o.Scale, "pixel scale multiplier")
	fs.IntVar(&o.TPS, "tps", o.TPS, "ticks per second")
	fs.IntVar(&o.StepsPerSec, "sps", o.StepsPerSec, "simulation steps per second")
	fs.IntVar(&o.EventsPerStep, "events", o.EventsPerStep, "events applied per simulation step")
	fs.IntVar(&o.PanelWidth, "panel", o.PanelWidth, "HUD panel width in pixels (0 hides it)")
}

// Normalize clamps out-of-range settings to usable values.
func (o *Options) Normalize() {
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.TPS <= 0 {
		o.TPS = 60
	}
	if o.StepsPerSec <= 0 {
		o.StepsPerSec = o.TPS
	}
	if o.EventsPerStep <= 0 {
		o.EventsPerStep = 1
	}
	if o.PanelWidth < 0 {
		o.PanelWidth = 0
	}
}
