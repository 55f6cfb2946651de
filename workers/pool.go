// Package workers provides the background worker pools shared by every scheduler instance
//
// A Pool owns two dedicated worker goroutines, each draining its own queue:
//   - PoolGeneral: field painting and other bulk background work
//   - PoolPath: path searches, isolated so bulk work cannot starve them
//
// Pools start lazily on the first submission and are joined when the last owner releases
package workers

import (
	"errors"
	"log"
	"sync"

	"github.com/lixenwraith/threatfield/core"
)

// PoolID selects one of the dedicated worker queues
type PoolID uint8

const (
	PoolGeneral PoolID = iota
	PoolPath
	PoolCount // sentinel
)

// String returns a short display name for the pool
func (id PoolID) String() string {
	switch id {
	case PoolGeneral:
		return "general"
	case PoolPath:
		return "path"
	default:
		return "invalid"
	}
}

// ErrNoOwner is returned by Submit when no scheduler holds a reference
var ErrNoOwner = errors.New("workers: pool has no owner")

// Logf is the package diagnostic logger, replaceable by SetLogger
var Logf = log.Printf

// SetLogger replaces the package logger, nil mutes it
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}

// Pool is a reference-counted pair of worker goroutines
// Construct once per process and pass to every scheduler
type Pool struct {
	// lifecycle serializes Acquire against a final Release still joining workers
	lifecycle sync.Mutex

	mu      sync.Mutex
	refs    int
	started bool
	queues  [PoolCount]*jobQueue
	wg      sync.WaitGroup
}

// NewPool creates an idle pool; no goroutines run until the first Submit
func NewPool() *Pool {
	p := &Pool{}
	for i := range p.queues {
		p.queues[i] = newJobQueue()
	}
	return p
}

// Name identifies the pool in logs
func (p *Pool) Name() string {
	return "workers"
}

// Acquire registers an owner
func (p *Pool) Acquire() {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()
	p.mu.Lock()
	p.refs++
	p.mu.Unlock()
}

// Release drops an owner; the last release stops and joins the workers
// Jobs queued before the final release run to completion before the workers exit
func (p *Pool) Release() {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	p.mu.Lock()
	if p.refs == 0 {
		p.mu.Unlock()
		return
	}
	p.refs--
	if p.refs > 0 || !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	for _, q := range p.queues {
		q.push(nil) // poison: unblocks a worker parked on an empty queue
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// Owners returns the current reference count
func (p *Pool) Owners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refs
}

// Running reports whether the worker goroutines are live
func (p *Pool) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Pending returns the number of jobs queued on one pool
func (p *Pool) Pending(id PoolID) int {
	return p.queues[id].len()
}

// Submit enqueues fn on the selected pool, starting the workers if needed
// Never blocks the caller
func (p *Pool) Submit(id PoolID, fn func()) error {
	if fn == nil || id >= PoolCount {
		return errors.New("workers: invalid job")
	}

	p.mu.Lock()
	if p.refs == 0 {
		p.mu.Unlock()
		return ErrNoOwner
	}
	if !p.started {
		p.start()
	}
	p.queues[id].push(fn)
	p.mu.Unlock()
	return nil
}

// start launches one goroutine per queue, caller holds p.mu
func (p *Pool) start() {
	p.started = true
	for id, q := range p.queues {
		p.wg.Add(1)
		core.Go(func() {
			defer p.wg.Done()
			work(PoolID(id), q)
		})
	}
	Logf("workers: started %d pool(s)", PoolCount)
}

func work(id PoolID, q *jobQueue) {
	for {
		fn := q.pop()
		if fn == nil {
			return
		}
		runJob(id, fn)
	}
}

// runJob executes one job; a panic is fatal to that invocation only and goes to the crash handler
func runJob(id PoolID, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			Logf("workers: job on %s pool panicked: %v", id, r)
			core.HandleCrash(r)
		}
	}()
	fn()
}
