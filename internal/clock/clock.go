// Package clock keeps the two countdowns of a game. Only the side to move is
// charged; time is measured between explicit ticks so callers control it.
package clock

import (
	"fmt"
	"time"

	nchess "github.com/corentings/chess/v2"
)

type Pair struct {
	Duration  time.Duration
	remaining [2]time.Duration
	last      time.Time
	running   bool
}

func NewPair(d time.Duration) *Pair {
	p := &Pair{Duration: d}
	p.Reset()
	return p
}

// Reset restores both clocks to the initial duration and pauses them.
func (p *Pair) Reset() {
	p.remaining = [2]time.Duration{p.Duration, p.Duration}
	p.running = false
	p.last = time.Time{}
}

// Start resumes charging from now.
func (p *Pair) Start(now time.Time) {
	p.running = true
	p.last = now
}

func (p *Pair) Stop() { p.running = false }

func (p *Pair) Running() bool { return p.running }

// Tick charges the time since the previous tick to side and reports whether
// that clock has run out.
func (p *Pair) Tick(now time.Time, side nchess.Color) bool {
	if !p.running {
		return false
	}
	elapsed := now.Sub(p.last)
	p.last = now
	i := index(side)
	if elapsed > 0 {
		p.remaining[i] -= elapsed
	}
	return p.remaining[i] <= 0
}

// Remaining never reports less than zero.
func (p *Pair) Remaining(side nchess.Color) time.Duration {
	r := p.remaining[index(side)]
	if r < 0 {
		return 0
	}
	return r
}

func index(c nchess.Color) int {
	if c == nchess.Black {
		return 1
	}
	return 0
}

// Format renders d as mm:ss, clamped at zero.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
