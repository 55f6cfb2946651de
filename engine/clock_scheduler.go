package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/threatfield/core"
	"github.com/lixenwraith/threatfield/status"
)

// Ticker advances one simulation frame
type Ticker interface {
	Tick(frame int)
}

// Clock drives a Ticker on a fixed real-time interval from its own goroutine
// That goroutine becomes the simulation goroutine; pausing freezes the frame counter
type Clock struct {
	target   Ticker
	interval time.Duration

	frame    atomic.Int64
	isPaused atomic.Bool

	// Drift correction, loop goroutine only
	nextTickDeadline time.Time

	// Control
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Signalled (non-blocking) after every tick
	ticked chan struct{}

	statOverruns *atomic.Int64
}

// NewClock creates a stopped clock and returns the tick notification channel
// The channel holds one pending signal; slow readers coalesce ticks
func NewClock(target Ticker, interval time.Duration, reg *status.Registry) (*Clock, <-chan struct{}) {
	if reg == nil {
		reg = status.NewRegistry()
	}
	ticked := make(chan struct{}, 1)
	c := &Clock{
		target:       target,
		interval:     interval,
		stopChan:     make(chan struct{}),
		ticked:       ticked,
		statOverruns: reg.Ints.Get(status.KeyEngineTickOverruns),
	}
	return c, ticked
}

// Start begins the tick loop
func (c *Clock) Start() {
	if c.running.CompareAndSwap(false, true) {
		c.wg.Add(1)
		core.Go(c.loop)
	}
}

// Stop halts the loop and waits for the current tick to finish
func (c *Clock) Stop() {
	c.stopOnce.Do(func() {
		if c.running.CompareAndSwap(true, false) {
			close(c.stopChan)
			c.wg.Wait()
		}
	})
}

// Pause suspends ticking without stopping the loop
func (c *Clock) Pause() {
	c.isPaused.Store(true)
}

// Resume continues ticking after Pause
func (c *Clock) Resume() {
	c.isPaused.Store(false)
}

// IsPaused returns current pause state
func (c *Clock) IsPaused() bool {
	return c.isPaused.Load()
}

// Frame returns the last frame ticked
func (c *Clock) Frame() int {
	return int(c.frame.Load())
}

func (c *Clock) loop() {
	defer c.wg.Done()

	c.nextTickDeadline = time.Now().Add(c.interval)

	// Go 1.23 timers: Stop and Reset never leave a stale value in C
	timer := time.NewTimer(c.interval)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		var sleepDuration time.Duration

		if c.isPaused.Load() {
			// Longer sleep while paused, deadline re-armed for resume
			sleepDuration = c.interval * 2
			c.nextTickDeadline = time.Now().Add(c.interval)
		} else {
			now := time.Now()
			if !now.Before(c.nextTickDeadline) {
				frame := int(c.frame.Add(1))
				c.target.Tick(frame)

				c.nextTickDeadline = c.nextTickDeadline.Add(c.interval)
				now = time.Now()
				maxBehind := c.interval * 2
				if now.Sub(c.nextTickDeadline) > maxBehind {
					// Too far behind, skip ahead instead of bursting
					c.nextTickDeadline = now.Add(c.interval)
					c.statOverruns.Add(1)
				}

				select {
				case c.ticked <- struct{}{}:
				default:
				}
			}
			sleepDuration = time.Until(c.nextTickDeadline)
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-c.stopChan:
				return
			}
		}
	}
}
