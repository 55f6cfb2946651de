// Package engine wires the visibility ledger, threat field, scheduler and inbound event queue
// into one frame-driven facade
//
// Tick and the direct sighting methods run on the simulation goroutine; Post and every
// field query are safe from any goroutine
package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/lixenwraith/threatfield/config"
	"github.com/lixenwraith/threatfield/core"
	"github.com/lixenwraith/threatfield/events"
	"github.com/lixenwraith/threatfield/field"
	"github.com/lixenwraith/threatfield/ledger"
	"github.com/lixenwraith/threatfield/scheduler"
	"github.com/lixenwraith/threatfield/status"
	"github.com/lixenwraith/threatfield/workers"
)

// Deps are the host collaborators
// Pool, Catalog, Source and Visibility are required
type Deps struct {
	Pool       *workers.Pool
	Catalog    ledger.Catalog
	Source     ledger.UnitSource
	Visibility ledger.VisibilityMap
	Terrain    field.TerrainMap // nil = all land
	Registry   *status.Registry // nil = private registry
}

// Engine is the frame-driven hazard engine
type Engine struct {
	cfg    config.Config
	reg    *status.Registry
	sched  *scheduler.Scheduler
	ledger *ledger.Ledger
	field  *field.Field
	queue  *events.Queue
	router *events.Router[int]

	refresh    *scheduler.Handle
	frame      int
	closed     bool
	retry      bool // refresh dropped while a cycle was in flight
	cycleFrame int  // frame the current cycle was accepted on

	statFrame   *atomic.Int64
	statDropped *atomic.Int64
}

// New validates cfg and builds the engine
// The refresh task is armed immediately and first runs on the first Tick
func New(cfg config.Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if deps.Pool == nil {
		panic("engine: nil worker pool")
	}
	reg := deps.Registry
	if reg == nil {
		reg = status.NewRegistry()
	}

	e := &Engine{
		cfg:         cfg,
		reg:         reg,
		cycleFrame:  -1,
		queue:       events.NewQueue(cfg.Engine.EventQueueSize),
		statFrame:   reg.Ints.Get(status.KeyEngineFrame),
		statDropped: reg.Ints.Get(status.KeyEventsDropped),
	}
	e.sched = scheduler.New(deps.Pool, reg)
	e.ledger = ledger.New(cfg, deps.Catalog, deps.Source, deps.Visibility, reg)
	e.field = field.New(cfg, e.ledger, e.sched, deps.Terrain, reg)

	e.router = events.NewRouter[int](e.queue)
	e.router.Register(e.ledger)

	e.refresh = e.sched.ScheduleRepeating(scheduler.TaskFunc(e.refreshCycle), cfg.Engine.RefreshFrames, 0)
	return e, nil
}

// refreshCycle runs on the simulation goroutine inside ProcessTasks
func (e *Engine) refreshCycle() {
	if e.cycleFrame == e.frame && e.field.IsUpdating() {
		return // a retry already started this frame's cycle
	}
	e.startCycle()
}

// startCycle refreshes the ledger and requests a paint
// A request dropped while a cycle is in flight is retried on the next Tick until accepted
func (e *Engine) startCycle() {
	e.ledger.Refresh(e.frame)
	if e.field.EnqueueUpdate() {
		e.retry = false
		e.cycleFrame = e.frame
		return
	}
	e.retry = true
}

// Tick drains inbound events into the ledger, retries a dropped refresh, then runs the scheduler for frame
func (e *Engine) Tick(frame int) {
	if e.closed {
		return
	}
	e.frame = frame
	e.ledger.SetFrame(frame)
	e.router.DispatchAll(frame)
	if e.retry {
		e.startCycle()
	}
	e.sched.ProcessTasks(frame)

	e.statFrame.Store(int64(frame))
	e.statDropped.Store(int64(e.queue.Dropped()))
}

// Post enqueues an inbound sighting event from any goroutine
// Returns false when the queue is full; the event is dropped and counted
func (e *Engine) Post(ev events.SightingEvent) bool {
	return e.queue.Push(ev)
}

// EnterSensor applies a sighting directly, simulation goroutine only
func (e *Engine) EnterSensor(id core.UnitID, via core.Sense) {
	e.ledger.EnterSensor(id, via)
}

// LeaveSensor applies a sensor loss directly, simulation goroutine only
func (e *Engine) LeaveSensor(id core.UnitID, via core.Sense) {
	e.ledger.LeaveSensor(id, via)
}

// Destroyed applies a destruction notice directly, simulation goroutine only
func (e *Engine) Destroyed(id core.UnitID) {
	e.ledger.Destroyed(id)
}

// Frame returns the frame of the most recent Tick
func (e *Engine) Frame() int { return e.frame }

// Field returns the threat field for queries
func (e *Engine) Field() *field.Field { return e.field }

// Ledger returns the visibility ledger, simulation goroutine only
func (e *Engine) Ledger() *ledger.Ledger { return e.ledger }

// Scheduler returns the engine's scheduler for host tasks
func (e *Engine) Scheduler() *scheduler.Scheduler { return e.sched }

// Registry returns the shared metrics registry
func (e *Engine) Registry() *status.Registry { return e.reg }

// Config returns the validated configuration
func (e *Engine) Config() config.Config { return e.cfg }

// Close cancels the refresh task and releases the worker pool reference
// An in-flight paint finishes on its worker; its publish is discarded
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.sched.Cancel(e.refresh)
	e.sched.Close()
}
