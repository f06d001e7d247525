package simtemp

import (
	"testing"
	"time"
)

func TestMonotonicClockNeverDecreases(t *testing.T) {
	c := newMonotonicClock()
	defer c.stop()

	last := c.now()
	for i := 0; i < 5; i++ {
		time.Sleep(2 * time.Millisecond)
		got := c.now()
		if got < last {
			t.Fatalf("clock went backwards: %d then %d", last, got)
		}
		last = got
	}
}
