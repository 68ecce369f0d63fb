// Package events is a synchronous in-process event bus. Handlers are
// registered once at startup by the composition root; delivery is in
// registration order and best-effort, with no persistence or retry.
package events

import (
	"context"
	"sync"
)

type Event interface {
	Name() string
}

type Handler func(ctx context.Context, e Event)

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish delivers e to every handler subscribed to e.Name(), in the order
// they subscribed, on the calling goroutine. The bus does not isolate
// handler faults; handlers are expected to be defensive and keep their
// errors to themselves.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	hs := b.handlers[e.Name()]
	b.mu.RUnlock()
	for _, h := range hs {
		h(ctx, e)
	}
}
