// Package trace persists event streams as zstd-compressed JSON lines.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"mad-kmc/internal/kmc"
	"mad-kmc/internal/lattice"
)

// Entry kinds.
const (
	KindEvent = "event"
	KindTrial = "trial"
)

// Entry is one line of a trace file.
type Entry struct {
	Kind  string  `json:"kind"`
	Trial int     `json:"trial"`
	Seq   uint64  `json:"seq,omitempty"`
	Time  float64 `json:"t"`
	I     int     `json:"i,omitempty"`
	J     int     `json:"j,omitempty"`
	State uint32  `json:"state,omitempty"`

	Result *kmc.Result `json:"result,omitempty"`
}

// Writer appends entries to one .jsonl.zst file. It is safe for concurrent
// use by recorders of parallel trials.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create opens path for writing, creating parent directories.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("trace dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("trace encoder: %w", err)
	}
	return &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}, nil
}

// Write appends one entry.
func (w *Writer) Write(e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return fmt.Errorf("trace: write after close")
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}
	err := w.w.Flush()
	if cerr := w.enc.Close(); err == nil {
		err = cerr
	}
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	w.w, w.enc, w.f = nil, nil, nil
	return err
}

// Recorder writes the events of one trial.
type Recorder struct {
	w     *Writer
	trial int
}

// Recorder returns a kmc.Recorder tagging entries with trial.
func (w *Writer) Recorder(trial int) *Recorder {
	return &Recorder{w: w, trial: trial}
}

// Record writes ev.
func (r *Recorder) Record(ev kmc.Event, _ *lattice.Lattice) error {
	return r.w.Write(Entry{
		Kind:  KindEvent,
		Trial: r.trial,
		Seq:   ev.Seq,
		Time:  ev.Time,
		I:     ev.Site.I,
		J:     ev.Site.J,
		State: uint32(ev.State),
	})
}

// Finish writes the trial summary line.
func (r *Recorder) Finish(res kmc.Result) error {
	return r.w.Write(Entry{Kind: KindTrial, Trial: r.trial, Time: res.Time, Result: &res})
}

// Scan decodes every entry of the trace at path and hands it to fn. It stops
// at the first error fn returns.
func Scan(path string, fn func(Entry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return decode(f, fn)
}

func decode(r io.Reader, fn func(Entry) error) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return fmt.Errorf("trace line %d: %w", line, err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return sc.Err()
}
