package scheduler

// Task is the single capability every scheduled payload implements
type Task interface {
	Run()
}

// TaskFunc adapts a plain function to Task
type TaskFunc func()

// Run implements Task
func (f TaskFunc) Run() {
	f()
}

type taskKind uint8

const (
	kindOnce taskKind = iota
	kindRepeating
)

// Handle identifies a pending once or repeating task for Cancel
// Owned by the simulation goroutine; not safe for use from workers
type Handle struct {
	task      Task
	kind      taskKind
	due       int // next frame the task may run
	every     int // repeating interval, 0 for once tasks
	cancelled bool
	done      bool // once task already ran
}

// Pending reports whether the task is still registered and will run again
func (h *Handle) Pending() bool {
	return h != nil && !h.cancelled && !h.done
}

// Due returns the next frame the task is eligible to run
func (h *Handle) Due() int {
	return h.due
}
