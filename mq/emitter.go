// Package mq is the in-process event bus used for cross-view invalidation.
// Each repository family emits on its own topic after its write is durable;
// mounted views subscribe for their lifetime and re-derive their projection
// on receipt. An event always means "the data is already safe to re-read".
package mq

import (
	"sync"

	"progressgarant/models"
)

type handler func(models.Index)

// Emitter is a typed publish/subscribe bus: topic -> list of listeners.
type Emitter struct {
	mu        sync.Mutex
	nextID    int
	listeners map[string]map[int]handler
}

func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[string]map[int]handler)}
}

// Subscribe registers fn on a topic and returns the unsubscribe function. A
// view calls it when unmounting; there is no in-flight delivery to cancel.
func (e *Emitter) Subscribe(topic string, fn func(models.Index)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners[topic] == nil {
		e.listeners[topic] = make(map[int]handler)
	}
	id := e.nextID
	e.nextID++
	e.listeners[topic][id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners[topic], id)
	}
}

// Emit delivers content to every listener on the topic, synchronously, in the
// caller's goroutine. Callers must emit only after their write committed.
func (e *Emitter) Emit(topic string, content models.Index) {
	e.mu.Lock()
	fns := make([]handler, 0, len(e.listeners[topic]))
	for _, fn := range e.listeners[topic] {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(content)
	}
}
