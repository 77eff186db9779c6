package clock

import (
	"testing"
	"time"

	nchess "github.com/corentings/chess/v2"
)

func TestOnlySideToMoveIsCharged(t *testing.T) {
	p := NewPair(10 * time.Minute)
	t0 := time.Unix(1000, 0)
	p.Start(t0)

	if p.Tick(t0.Add(3*time.Second), nchess.White) {
		t.Fatalf("white should not be out of time")
	}
	if got := p.Remaining(nchess.White); got != 10*time.Minute-3*time.Second {
		t.Fatalf("white remaining = %v", got)
	}
	if got := p.Remaining(nchess.Black); got != 10*time.Minute {
		t.Fatalf("black must not be charged, got %v", got)
	}

	p.Tick(t0.Add(5*time.Second), nchess.Black)
	if got := p.Remaining(nchess.Black); got != 10*time.Minute-2*time.Second {
		t.Fatalf("black remaining = %v", got)
	}
}

func TestExpiryAndClamp(t *testing.T) {
	p := NewPair(time.Second)
	t0 := time.Unix(0, 0)
	p.Start(t0)
	if !p.Tick(t0.Add(1500*time.Millisecond), nchess.Black) {
		t.Fatalf("expected black flag to fall")
	}
	if got := p.Remaining(nchess.Black); got != 0 {
		t.Fatalf("remaining should clamp at zero, got %v", got)
	}
	if got := Format(p.Remaining(nchess.Black)); got != "00:00" {
		t.Fatalf("Format = %q", got)
	}
}

func TestStoppedClockIgnoresTicks(t *testing.T) {
	p := NewPair(time.Minute)
	t0 := time.Unix(0, 0)
	p.Start(t0)
	p.Stop()
	if p.Tick(t0.Add(2*time.Minute), nchess.White) {
		t.Fatalf("stopped clock must not expire")
	}
	if got := p.Remaining(nchess.White); got != time.Minute {
		t.Fatalf("remaining = %v", got)
	}
	p.Reset()
	if p.Running() {
		t.Fatalf("reset must pause the clocks")
	}
}

func TestFormat(t *testing.T) {
	cases := map[time.Duration]string{
		10 * time.Minute:                      "10:00",
		9*time.Minute + 59*time.Second:        "09:59",
		61*time.Second + 900*time.Millisecond: "01:01",
		-time.Second:                          "00:00",
	}
	for d, want := range cases {
		if got := Format(d); got != want {
			t.Fatalf("Format(%v) = %q, want %q", d, got, want)
		}
	}
}
