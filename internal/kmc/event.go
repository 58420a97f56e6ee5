package kmc

import "mad-kmc/internal/lattice"

// Event is one applied state change.
type Event struct {
	Seq   uint64        `json:"seq"`
	Time  float64       `json:"t"`
	Site  lattice.Coord `json:"site"`
	State lattice.Cell  `json:"state"`
	// Restart counts the reseeds before this event; Time restarts from 0
	// with each one.
	Restart int `json:"restart,omitempty"`
}

// Recorder receives events in time order, after the lattice reflects them.
type Recorder interface {
	Record(ev Event, l *lattice.Lattice) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ev Event, l *lattice.Lattice) error

// Record calls f.
func (f RecorderFunc) Record(ev Event, l *lattice.Lattice) error { return f(ev, l) }

// EventLog keeps every event in memory.
type EventLog struct {
	Events []Event
}

// Record appends ev.
func (g *EventLog) Record(ev Event, _ *lattice.Lattice) error {
	g.Events = append(g.Events, ev)
	return nil
}
