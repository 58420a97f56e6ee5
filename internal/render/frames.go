package render

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"mad-kmc/internal/kmc"
	"mad-kmc/internal/lattice"
)

// FrameRecorder writes one PBM per event into a directory. Frames are named
// by restart count and event time in nanoseconds, zero padded so they sort in
// event order across restarts, and show the lattice with every change of the
// event applied.
type FrameRecorder struct {
	dir     string
	lastSeq uint64
	written int
}

// NewFrameRecorder creates dir if needed.
func NewFrameRecorder(dir string) (*FrameRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("frame dir: %w", err)
	}
	return &FrameRecorder{dir: dir}, nil
}

// FrameName returns the file name for an event at time t after restart
// reseeds.
func FrameName(restart int, t float64) string {
	return fmt.Sprintf("%06d-%020d.pbm", restart, uint64(math.Round(t*1e9)))
}

// Record writes the frame for ev unless one was already written for the same
// event.
func (r *FrameRecorder) Record(ev kmc.Event, l *lattice.Lattice) (err error) {
	if ev.Seq == r.lastSeq && r.written > 0 {
		return nil
	}
	r.lastSeq = ev.Seq
	f, err := os.Create(filepath.Join(r.dir, FrameName(ev.Restart, ev.Time)))
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close frame: %w", cerr)
		}
	}()
	r.written++
	return WritePBM(f, l)
}

// Written returns the number of frames written.
func (r *FrameRecorder) Written() int { return r.written }
