package events

import "sync/atomic"

// Queue is a lock-free bounded MPSC ring buffer for sighting events
// Thread-Safety:
//   - Push: lock-free CAS, multiple producers OK
//   - Consume: single consumer (simulation goroutine)
//   - Published flags prevent reading partial writes
//
// Overflow: Push refuses new events when full, queued events are never overwritten
type Queue struct {
	events    []SightingEvent
	published []atomic.Bool // true = slot fully written
	mask      uint64
	head      atomic.Uint64 // read index
	tail      atomic.Uint64 // write index
	dropped   atomic.Uint64
}

// NewQueue creates a queue; size must be a power of two
func NewQueue(size int) *Queue {
	if size < 2 || size&(size-1) != 0 {
		panic("events: queue size must be a power of two")
	}
	return &Queue{
		events:    make([]SightingEvent, size),
		published: make([]atomic.Bool, size),
		mask:      uint64(size - 1),
	}
}

// Cap returns the ring capacity
func (q *Queue) Cap() int {
	return len(q.events)
}

// Push adds an event, returns false (and counts a drop) when the ring is full
// Safe for concurrent producers. O(1) amortized
func (q *Queue) Push(ev SightingEvent) bool {
	size := uint64(len(q.events))
	for {
		// Head before tail: a stale head only underestimates free space
		head := q.head.Load()
		tail := q.tail.Load()
		if tail-head >= size {
			q.dropped.Add(1)
			return false
		}
		if q.tail.CompareAndSwap(tail, tail+1) {
			idx := tail & q.mask
			q.events[idx] = ev
			q.published[idx].Store(true) // MUST be after write
			return true
		}
	}
}

// Consume appends all fully published events in FIFO order to dst and advances head
// A slot still being written stops the drain, the rest is picked up next call
func (q *Queue) Consume(dst []SightingEvent) []SightingEvent {
	head := q.head.Load()
	tail := q.tail.Load()
	for head != tail {
		idx := head & q.mask
		if !q.published[idx].Load() {
			break // writer incomplete
		}
		dst = append(dst, q.events[idx])
		q.published[idx].Store(false)
		head++
	}
	q.head.Store(head)
	return dst
}

// Len returns an approximate count of queued events
func (q *Queue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Dropped returns the number of events refused because the ring was full
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
