// Package scheduler runs per-frame one-shot, repeating and background tasks
//
// Threading contract:
//   - Schedule*, Cancel and ProcessTasks are called from the simulation goroutine only
//   - Background bodies run on a workers.Pool goroutine
//   - Background completions run only inside ProcessTasks, in completion order
package scheduler

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/threatfield/status"
	"github.com/lixenwraith/threatfield/workers"
)

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

// ErrClosed is returned by background submissions after Close
var ErrClosed = errors.New("scheduler: closed")

// Scheduler decouples "when" from "what" for the simulation goroutine
type Scheduler struct {
	pool *workers.Pool

	frame      int
	processing bool
	once       []*Handle
	repeating  []*Handle
	incoming   []*Handle // scheduled during an active pass, merged at its end
	dirty      bool      // cancellations awaiting compaction

	// Completion queue, pushed by workers, drained by ProcessTasks
	compMu      sync.Mutex
	completions []Task
	draining    []Task

	closed        atomic.Bool
	releaseOnce   sync.Once
	bgOutstanding atomic.Int64

	// Cached metric pointers
	statOnce        *atomic.Int64
	statRepeating   *atomic.Int64
	statBackground  *atomic.Int64
	statCompletions *atomic.Int64
}

// New creates a scheduler holding a reference on pool
// reg may be nil, in which case a private registry is used
func New(pool *workers.Pool, reg *status.Registry) *Scheduler {
	if pool == nil {
		panic("scheduler: nil worker pool")
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	pool.Acquire()

	return &Scheduler{
		pool:            pool,
		once:            make([]*Handle, 0, 16),
		repeating:       make([]*Handle, 0, 16),
		statOnce:        reg.Ints.Get(status.KeySchedOnce),
		statRepeating:   reg.Ints.Get(status.KeySchedRepeating),
		statBackground:  reg.Ints.Get(status.KeySchedBackground),
		statCompletions: reg.Ints.Get(status.KeySchedCompletions),
	}
}

// Frame returns the frame passed to the most recent ProcessTasks
func (s *Scheduler) Frame() int {
	return s.frame
}

// ScheduleOnce runs task once on the first ProcessTasks where frame >= atFrame
func (s *Scheduler) ScheduleOnce(task Task, atFrame int) *Handle {
	h := &Handle{task: task, kind: kindOnce, due: atFrame}
	s.register(h)
	return h
}

// ScheduleAfter runs task once, delay frames after the current frame
func (s *Scheduler) ScheduleAfter(task Task, delay int) *Handle {
	return s.ScheduleOnce(task, s.frame+delay)
}

// ScheduleRepeating runs task every `every` frames measured from its own last execution
// The first run happens firstDelay frames from now
func (s *Scheduler) ScheduleRepeating(task Task, every, firstDelay int) *Handle {
	if every < 1 {
		every = 1
	}
	if firstDelay < 0 {
		firstDelay = 0
	}
	h := &Handle{task: task, kind: kindRepeating, due: s.frame + firstDelay, every: every}
	s.register(h)
	return h
}

func (s *Scheduler) register(h *Handle) {
	if s.processing {
		s.incoming = append(s.incoming, h)
		return
	}
	s.insert(h)
}

func (s *Scheduler) insert(h *Handle) {
	if h.kind == kindOnce {
		s.once = append(s.once, h)
	} else {
		s.repeating = append(s.repeating, h)
	}
}

// Cancel deregisters a pending task
// During an active pass the task stops running immediately but removal waits for the pass end
func (s *Scheduler) Cancel(h *Handle) {
	if h == nil || h.cancelled {
		return
	}
	h.cancelled = true
	s.dirty = true
	if !s.processing {
		s.compact()
	}
}

// ScheduleBackground runs task on the general pool; onComplete (may be nil) runs in a later ProcessTasks
// Returns ErrClosed after Close even while other schedulers keep the pool alive
func (s *Scheduler) ScheduleBackground(task, onComplete Task) error {
	return s.submit(workers.PoolGeneral, task, onComplete)
}

// SchedulePathSearch runs task on the path-search pool; onComplete (may be nil) runs in a later ProcessTasks
func (s *Scheduler) SchedulePathSearch(task, onComplete Task) error {
	return s.submit(workers.PoolPath, task, onComplete)
}

func (s *Scheduler) submit(id workers.PoolID, task, onComplete Task) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.bgOutstanding.Add(1)
	s.statBackground.Add(1)
	err := s.pool.Submit(id, func() {
		defer func() {
			s.bgOutstanding.Add(-1)
			s.statBackground.Add(-1)
		}()
		task.Run()
		if onComplete != nil {
			s.pushCompletion(onComplete)
		}
	})
	if err != nil {
		s.bgOutstanding.Add(-1)
		s.statBackground.Add(-1)
		return err
	}
	return nil
}

// pushCompletion is called from worker goroutines
func (s *Scheduler) pushCompletion(t Task) {
	if s.closed.Load() {
		return
	}
	s.compMu.Lock()
	s.completions = append(s.completions, t)
	s.compMu.Unlock()
}

// BackgroundPending returns background tasks submitted but not yet finished on a worker
func (s *Scheduler) BackgroundPending() int {
	return int(s.bgOutstanding.Load())
}

// ProcessTasks advances the scheduler to frame and runs, in order:
// due once tasks, due repeating tasks, pending background completions
func (s *Scheduler) ProcessTasks(frame int) {
	s.frame = frame
	s.processing = true

	s.runOnce(frame)
	s.runRepeating(frame)
	s.runCompletions()

	s.processing = false
	for _, h := range s.incoming {
		if !h.cancelled {
			s.insert(h)
		}
	}
	clear(s.incoming)
	s.incoming = s.incoming[:0]
	if s.dirty {
		s.compact()
	}

	s.statOnce.Store(int64(len(s.once)))
	s.statRepeating.Store(int64(len(s.repeating)))
}

func (s *Scheduler) runOnce(frame int) {
	kept := s.once[:0]
	for _, h := range s.once {
		if h.cancelled {
			continue
		}
		if frame < h.due {
			kept = append(kept, h)
			continue
		}
		h.done = true
		h.task.Run()
	}
	clear(s.once[len(kept):])
	s.once = kept
}

func (s *Scheduler) runRepeating(frame int) {
	for _, h := range s.repeating {
		if h.cancelled || frame < h.due {
			continue
		}
		h.due = frame + h.every
		h.task.Run()
	}
}

func (s *Scheduler) runCompletions() {
	s.compMu.Lock()
	s.draining, s.completions = s.completions, s.draining[:0]
	s.compMu.Unlock()

	for i, t := range s.draining {
		t.Run()
		s.draining[i] = nil
	}
	s.statCompletions.Add(int64(len(s.draining)))
}

// compact drops cancelled handles, never called during a pass
func (s *Scheduler) compact() {
	s.once = compactHandles(s.once)
	s.repeating = compactHandles(s.repeating)
	s.dirty = false
}

func compactHandles(hs []*Handle) []*Handle {
	kept := hs[:0]
	for _, h := range hs {
		if !h.cancelled {
			kept = append(kept, h)
		}
	}
	clear(hs[len(kept):])
	return kept
}

// Close releases the pool reference; pending completions are discarded
// In-flight background bodies still finish on their worker
func (s *Scheduler) Close() {
	s.releaseOnce.Do(func() {
		s.closed.Store(true)
		s.compMu.Lock()
		n := len(s.completions)
		s.completions = nil
		s.compMu.Unlock()
		if n > 0 {
			Logf("scheduler: discarded %d pending completion(s) on close", n)
		}
		s.pool.Release()
	})
}
