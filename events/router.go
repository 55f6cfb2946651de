package events

// Handler processes sighting events within a context T
// The ledger implements this with T = frame number
type Handler[T any] interface {
	// HandleEvent processes a single event
	// Called synchronously during the dispatch phase on the simulation goroutine
	HandleEvent(ctx T, ev SightingEvent)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// Router dispatches queued events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
type Router[T any] struct {
	handlers [eventTypeCount][]Handler[T]
	queue    *Queue
	scratch  []SightingEvent
}

// NewRouter creates a router attached to the given queue
func NewRouter[T any](queue *Queue) *Router[T] {
	return &Router[T]{
		queue:   queue,
		scratch: make([]SightingEvent, 0, queue.Cap()),
	}
}

// Register adds a handler for its declared event types
func (r *Router[T]) Register(handler Handler[T]) {
	for _, t := range handler.EventTypes() {
		if t < eventTypeCount {
			r.handlers[t] = append(r.handlers[t], handler)
		}
	}
}

// DispatchAll consumes all pending events and routes them in FIFO order
// Returns the number of events dispatched
func (r *Router[T]) DispatchAll(ctx T) int {
	r.scratch = r.queue.Consume(r.scratch[:0])
	for _, ev := range r.scratch {
		if ev.Type >= eventTypeCount {
			continue
		}
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ctx, ev)
		}
	}
	return len(r.scratch)
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router[T]) HandlerCount(t EventType) int {
	if t >= eventTypeCount {
		return 0
	}
	return len(r.handlers[t])
}
