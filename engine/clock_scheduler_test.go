package engine

import (
	"sync"
	"testing"
	"time"
)

type countingTicker struct {
	mu     sync.Mutex
	frames []int
}

func (c *countingTicker) Tick(frame int) {
	c.mu.Lock()
	c.frames = append(c.frames, frame)
	c.mu.Unlock()
}

func (c *countingTicker) snapshot() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.frames...)
}

func TestClockTicksSequentialFrames(t *testing.T) {
	target := &countingTicker{}
	clock, ticked := NewClock(target, time.Millisecond, nil)
	clock.Start()

	deadline := time.After(2 * time.Second)
	for clock.Frame() < 10 {
		select {
		case <-ticked:
		case <-deadline:
			t.Fatalf("only %d frames ticked", clock.Frame())
		}
	}
	clock.Stop()

	frames := target.snapshot()
	for i, f := range frames {
		if f != i+1 {
			t.Fatalf("frame[%d] = %d, want %d", i, f, i+1)
		}
	}
}

func TestClockPauseFreezesFrames(t *testing.T) {
	target := &countingTicker{}
	clock, _ := NewClock(target, time.Millisecond, nil)
	clock.Start()
	defer clock.Stop()

	time.Sleep(20 * time.Millisecond)
	clock.Pause()
	time.Sleep(10 * time.Millisecond) // let an in-progress tick finish
	frozen := clock.Frame()
	time.Sleep(20 * time.Millisecond)
	if got := clock.Frame(); got != frozen {
		t.Errorf("Frame advanced while paused: %d -> %d", frozen, got)
	}

	clock.Resume()
	time.Sleep(20 * time.Millisecond)
	if clock.Frame() <= frozen {
		t.Error("Frame did not advance after Resume")
	}
}

func TestClockStopIsIdempotent(t *testing.T) {
	clock, _ := NewClock(&countingTicker{}, time.Millisecond, nil)
	clock.Stop() // never started
	clock.Start()
	clock.Stop()
	clock.Stop()
	if clock.IsPaused() {
		t.Error("IsPaused after stop")
	}
}
