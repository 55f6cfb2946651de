package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/threatfield/status"
	"github.com/lixenwraith/threatfield/workers"
)

func init() {
	SetLogger(nil)
	workers.SetLogger(nil)
}

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	pool := workers.NewPool()
	s := New(pool, nil)
	t.Cleanup(s.Close)
	return s
}

// waitFor ticks the scheduler until cond holds or the deadline passes
func waitFor(t *testing.T, s *Scheduler, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	frame := s.Frame()
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached before deadline")
		}
		frame++
		s.ProcessTasks(frame)
		time.Sleep(time.Millisecond)
	}
}

// ============================================================================
// Once / Repeating
// ============================================================================

func TestScheduleOnceRunsAtFrame(t *testing.T) {
	s := newTestScheduler(t)
	var runs []int
	s.ScheduleOnce(TaskFunc(func() { runs = append(runs, s.Frame()) }), 5)

	for f := 1; f <= 10; f++ {
		s.ProcessTasks(f)
	}
	if len(runs) != 1 || runs[0] != 5 {
		t.Errorf("runs = %v, want [5]", runs)
	}
}

func TestScheduleOnceLateFrameStillRuns(t *testing.T) {
	s := newTestScheduler(t)
	ran := false
	h := s.ScheduleOnce(TaskFunc(func() { ran = true }), 3)

	// Frames may be skipped by the host; atFrame <= current runs
	s.ProcessTasks(7)
	if !ran {
		t.Error("task due at 3 did not run at frame 7")
	}
	if h.Pending() {
		t.Error("handle still pending after run")
	}
}

func TestScheduleRepeatingInterval(t *testing.T) {
	s := newTestScheduler(t)
	var runs []int
	s.ScheduleRepeating(TaskFunc(func() { runs = append(runs, s.Frame()) }), 3, 1)

	for f := 1; f <= 10; f++ {
		s.ProcessTasks(f)
	}
	want := []int{1, 4, 7, 10}
	if len(runs) != len(want) {
		t.Fatalf("runs = %v, want %v", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Errorf("runs[%d] = %d, want %d", i, runs[i], want[i])
		}
	}
}

// TestScheduleRepeatingMeasuredFromLastRun verifies skipped frames shift the cadence
func TestScheduleRepeatingMeasuredFromLastRun(t *testing.T) {
	s := newTestScheduler(t)
	var runs []int
	s.ScheduleRepeating(TaskFunc(func() { runs = append(runs, s.Frame()) }), 5, 0)

	for _, f := range []int{0, 7, 11, 12, 13} {
		s.ProcessTasks(f)
	}
	want := []int{0, 7, 12}
	if len(runs) != len(want) {
		t.Fatalf("runs = %v, want %v", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Errorf("runs[%d] = %d, want %d", i, runs[i], want[i])
		}
	}
}

func TestProcessTasksOrder(t *testing.T) {
	s := newTestScheduler(t)
	var order []string

	s.ScheduleBackground(TaskFunc(func() {}), TaskFunc(func() { order = append(order, "completion") }))
	// Outstanding count drops only after the completion has been queued
	for s.BackgroundPending() != 0 {
		time.Sleep(time.Millisecond)
	}
	s.ScheduleRepeating(TaskFunc(func() { order = append(order, "repeating") }), 10, 0)
	s.ScheduleOnce(TaskFunc(func() { order = append(order, "once") }), 0)

	s.ProcessTasks(1)

	want := []string{"once", "repeating", "completion"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

// ============================================================================
// Cancel
// ============================================================================

func TestCancelOutsidePass(t *testing.T) {
	s := newTestScheduler(t)
	ran := false
	h := s.ScheduleOnce(TaskFunc(func() { ran = true }), 2)
	s.Cancel(h)
	s.ProcessTasks(5)
	if ran {
		t.Error("cancelled task ran")
	}
	if h.Pending() {
		t.Error("cancelled handle reports pending")
	}
}

// TestCancelDuringPassDeferred cancels a later task from inside an earlier one
func TestCancelDuringPassDeferred(t *testing.T) {
	s := newTestScheduler(t)
	var victim *Handle
	victimRuns := 0

	s.ScheduleRepeating(TaskFunc(func() { s.Cancel(victim) }), 1, 0)
	victim = s.ScheduleRepeating(TaskFunc(func() { victimRuns++ }), 1, 0)

	s.ProcessTasks(1)
	if victimRuns != 0 {
		t.Errorf("victim ran %d time(s) after cancel in same pass", victimRuns)
	}
	if len(s.repeating) != 1 {
		t.Errorf("repeating len = %d after pass, want 1", len(s.repeating))
	}

	s.ProcessTasks(2)
	if victimRuns != 0 {
		t.Errorf("victim ran on a later frame")
	}
}

// TestCancelSelfDuringPass lets a repeating task deregister itself
func TestCancelSelfDuringPass(t *testing.T) {
	s := newTestScheduler(t)
	runs := 0
	var h *Handle
	h = s.ScheduleRepeating(TaskFunc(func() {
		runs++
		if runs == 2 {
			s.Cancel(h)
		}
	}), 1, 0)

	for f := 0; f < 6; f++ {
		s.ProcessTasks(f)
	}
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestScheduleDuringPassJoinsAfter(t *testing.T) {
	s := newTestScheduler(t)
	var runs []int
	s.ScheduleOnce(TaskFunc(func() {
		s.ScheduleOnce(TaskFunc(func() { runs = append(runs, s.Frame()) }), s.Frame())
	}), 1)

	s.ProcessTasks(1)
	if len(runs) != 0 {
		t.Fatalf("task scheduled mid-pass ran in the same pass")
	}
	s.ProcessTasks(2)
	if len(runs) != 1 || runs[0] != 2 {
		t.Errorf("runs = %v, want [2]", runs)
	}
}

// ============================================================================
// Background
// ============================================================================

// TestCompletionRunsOnlyInProcessTasks verifies completions never run inline on the worker
func TestCompletionRunsOnlyInProcessTasks(t *testing.T) {
	s := newTestScheduler(t)

	var bodyDone atomic.Bool
	var inProcess atomic.Bool
	var completedInside atomic.Bool
	var completedAfterBody atomic.Bool

	s.ScheduleBackground(
		TaskFunc(func() {
			time.Sleep(5 * time.Millisecond)
			bodyDone.Store(true)
		}),
		TaskFunc(func() {
			completedAfterBody.Store(bodyDone.Load())
			completedInside.Store(inProcess.Load())
		}),
	)

	// Without ProcessTasks the completion must never fire
	for s.BackgroundPending() != 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(5 * time.Millisecond)
	if completedAfterBody.Load() || completedInside.Load() {
		t.Fatal("completion ran before ProcessTasks")
	}

	inProcess.Store(true)
	s.ProcessTasks(1)
	inProcess.Store(false)

	if !completedInside.Load() {
		t.Error("completion did not run inside ProcessTasks")
	}
	if !completedAfterBody.Load() {
		t.Error("completion observed unfinished body")
	}
}

func TestSchedulePathSearchUsesPathPool(t *testing.T) {
	s := newTestScheduler(t)

	gate := make(chan struct{})
	s.ScheduleBackground(TaskFunc(func() { <-gate }), nil)
	defer close(gate)

	completed := false
	s.SchedulePathSearch(TaskFunc(func() {}), TaskFunc(func() { completed = true }))
	waitFor(t, s, func() bool { return completed })
}

func TestCompletionsInCompletionOrder(t *testing.T) {
	s := newTestScheduler(t)

	slow := make(chan struct{})
	var order []string
	s.ScheduleBackground(TaskFunc(func() { <-slow }), TaskFunc(func() { order = append(order, "general") }))
	s.SchedulePathSearch(TaskFunc(func() {}), TaskFunc(func() { order = append(order, "path") }))

	// Path finishes first even though it was submitted second
	waitFor(t, s, func() bool { return len(order) == 1 })
	close(slow)
	waitFor(t, s, func() bool { return len(order) == 2 })

	if order[0] != "path" || order[1] != "general" {
		t.Errorf("order = %v, want [path general]", order)
	}
}

func TestCloseDiscardsCompletions(t *testing.T) {
	pool := workers.NewPool()
	reg := status.NewRegistry()
	s := New(pool, reg)

	ran := false
	s.ScheduleBackground(TaskFunc(func() {}), TaskFunc(func() { ran = true }))
	for s.BackgroundPending() != 0 {
		time.Sleep(time.Millisecond)
	}
	s.Close()
	s.ProcessTasks(1)

	if ran {
		t.Error("completion ran after Close")
	}
	if pool.Running() {
		t.Error("pool running after last scheduler closed")
	}
	if err := s.ScheduleBackground(TaskFunc(func() {}), nil); err == nil {
		t.Error("ScheduleBackground after Close should fail")
	}
}

// TestSharedPoolAcrossSchedulers verifies the pool joins only after the last owner closes
func TestSharedPoolAcrossSchedulers(t *testing.T) {
	pool := workers.NewPool()
	a := New(pool, nil)
	b := New(pool, nil)

	doneA := false
	a.ScheduleBackground(TaskFunc(func() {}), TaskFunc(func() { doneA = true }))
	waitFor(t, a, func() bool { return doneA })

	a.Close()
	if !pool.Running() {
		t.Fatal("pool stopped while second scheduler alive")
	}

	doneB := false
	b.ScheduleBackground(TaskFunc(func() {}), TaskFunc(func() { doneB = true }))
	waitFor(t, b, func() bool { return doneB })

	b.Close()
	if pool.Running() {
		t.Error("pool still running after both schedulers closed")
	}
}

// TestClosedSchedulerRefusesWorkOnSharedPool verifies a closed scheduler refuses work
// while another owner keeps the pool running
func TestClosedSchedulerRefusesWorkOnSharedPool(t *testing.T) {
	pool := workers.NewPool()
	keeper := New(pool, nil)
	defer keeper.Close()
	s := New(pool, nil)

	warm := false
	keeper.ScheduleBackground(TaskFunc(func() {}), TaskFunc(func() { warm = true }))
	waitFor(t, keeper, func() bool { return warm })

	s.Close()
	if !pool.Running() {
		t.Fatal("pool stopped while another scheduler holds it")
	}

	var bodyRan atomic.Bool
	err := s.ScheduleBackground(TaskFunc(func() { bodyRan.Store(true) }), TaskFunc(func() {}))
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("ScheduleBackground after Close: err = %v, want ErrClosed", err)
	}
	if err := s.SchedulePathSearch(TaskFunc(func() {}), nil); !errors.Is(err, ErrClosed) {
		t.Errorf("SchedulePathSearch after Close: err = %v, want ErrClosed", err)
	}

	// Flush the general queue through the live scheduler
	flushed := false
	keeper.ScheduleBackground(TaskFunc(func() {}), TaskFunc(func() { flushed = true }))
	waitFor(t, keeper, func() bool { return flushed })

	if bodyRan.Load() {
		t.Error("refused task body ran")
	}
	if n := s.BackgroundPending(); n != 0 {
		t.Errorf("BackgroundPending = %d, want 0", n)
	}
}
