package gogpu

import (
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/rawview"
)

// eventQueue buffers events delivered by gogpu callbacks until the
// session polls for them.
type eventQueue struct {
	mu     sync.Mutex
	events []rawview.Event
}

func (q *eventQueue) push(ev rawview.Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

func (q *eventQueue) pop() (rawview.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return rawview.Event{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}

// bindEvents forwards keyboard and resize callbacks from src into q.
func bindEvents(src gpucontext.EventSource, q *eventQueue) {
	if src == nil {
		return
	}
	src.OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		q.push(rawview.Event{Type: rawview.EventKeyDown, Key: key})
	})
	src.OnKeyRelease(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		q.push(rawview.Event{Type: rawview.EventKeyUp, Key: key})
	})
	src.OnResize(func(int, int) {
		q.push(rawview.Event{Type: rawview.EventWindowResized})
	})
}
