package tracking

// Queue buffers events until the external tracker reports ready, then
// drains them in FIFO order. Once loaded, events dispatch immediately.
// If the tracker never loads, buffered events stay stranded for the
// lifetime of the queue; that loss is accepted, not retried.
//
// A Queue belongs to a single page/consumer context and is not safe for
// concurrent use.
type Queue struct {
	dispatch     func(Event)
	buffer       []Event
	loaded       bool
	pageviewSent bool
}

func NewQueue(dispatch func(Event)) *Queue {
	return &Queue{dispatch: dispatch}
}

// Enqueue buffers or dispatches an event depending on queue state.
func (q *Queue) Enqueue(ev Event) {
	if q.loaded {
		q.dispatch(ev)
		return
	}
	q.buffer = append(q.buffer, ev)
}

// EnqueuePageview enqueues a pageview at most once per queue lifetime.
// It reports whether the event was accepted.
func (q *Queue) EnqueuePageview(ev Event) bool {
	if q.pageviewSent {
		return false
	}
	q.pageviewSent = true
	q.Enqueue(ev)
	return true
}

// ScriptLoaded transitions the queue to the loaded state and drains the
// buffer in insertion order. The transition is one-way; calling it again
// is a no-op.
func (q *Queue) ScriptLoaded() {
	if q.loaded {
		return
	}
	q.loaded = true
	for _, ev := range q.buffer {
		q.dispatch(ev)
	}
	q.buffer = nil
}

func (q *Queue) Loaded() bool {
	return q.loaded
}

// Pending reports how many events are waiting for the load transition.
func (q *Queue) Pending() int {
	return len(q.buffer)
}
