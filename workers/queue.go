package workers

import "sync"

// jobQueue is an unbounded blocking multi-producer queue
// Producers never block; the single consumer parks on the condition while empty
type jobQueue struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []func()
	head  int
}

func newJobQueue() *jobQueue {
	q := &jobQueue{items: make([]func(), 0, 16)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends fn, nil is the reserved poison job
func (q *jobQueue) push(fn func()) {
	q.mu.Lock()
	q.items = append(q.items, fn)
	q.mu.Unlock()
	q.cond.Signal()
}

// pop blocks until a job is available and returns it in FIFO order
func (q *jobQueue) pop() func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head == len(q.items) {
		q.cond.Wait()
	}
	fn := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	if q.head == len(q.items) {
		// Reuse backing array once drained
		q.items = q.items[:0]
		q.head = 0
	}
	return fn
}

func (q *jobQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}
