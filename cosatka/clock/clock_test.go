package clock

import (
	"testing"
	"time"
)

func TestRealClockNow(t *testing.T) {
	before := time.Now()
	got := RealClock{}.Now()
	if got.Before(before.Add(-time.Second)) {
		t.Errorf("RealClock.Now() = %v, want around %v", got, before)
	}
	if got.Location() != time.UTC {
		t.Errorf("RealClock.Now() location = %v, want UTC", got.Location())
	}
}

func TestManual(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := NewManual(start)

	clk.Advance(90 * time.Second)
	if want := start.Add(90 * time.Second); !clk.Now().Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", clk.Now(), want)
	}

	clk.Set(start)
	if !clk.Now().Equal(start) {
		t.Errorf("Now() after Set = %v, want %v", clk.Now(), start)
	}
}
