package core

import "time"

// Pacer converts elapsed wall-clock time into a number of simulation events,
// so the viewer can play a run at a fixed event rate regardless of frame rate.
type Pacer struct {
	interval    time.Duration
	accumulator time.Duration
	last        time.Time
	maxBurst    int
	now         func() time.Time
}

// NewPacer constructs a Pacer targeting rate events per second. At most
// maxBurst events are released per call to Due.
func NewPacer(rate, maxBurst int) *Pacer {
	p := &Pacer{now: time.Now}
	p.SetRate(rate)
	if maxBurst <= 0 {
		maxBurst = 1
	}
	p.maxBurst = maxBurst
	return p
}

// SetRate changes the event rate. Non-positive rates fall back to 60.
func (p *Pacer) SetRate(rate int) {
	if rate <= 0 {
		rate = 60
	}
	p.interval = time.Second / time.Duration(rate)
}

// Rate returns the configured events per second.
func (p *Pacer) Rate() int { return int(time.Second / p.interval) }

// Due reports how many events should run now. Time that would release more
// than maxBurst events is dropped instead of carried over.
func (p *Pacer) Due() int {
	now := p.now()
	if p.last.IsZero() {
		p.last = now
	}
	p.accumulator += now.Sub(p.last)
	p.last = now
	n := int(p.accumulator / p.interval)
	if n > p.maxBurst {
		p.accumulator = 0
		return p.maxBurst
	}
	p.accumulator -= time.Duration(n) * p.interval
	return n
}
