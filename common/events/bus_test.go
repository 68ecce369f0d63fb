package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testEvent struct {
	name string
}

func (e testEvent) Name() string { return e.name }

func TestPublishOrder(t *testing.T) {
	bus := NewBus()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		bus.Subscribe("ping", func(ctx context.Context, e Event) {
			got = append(got, i)
		})
	}
	bus.Publish(context.Background(), testEvent{name: "ping"})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestPublishOnlyMatchingName(t *testing.T) {
	bus := NewBus()
	var pings, pongs int
	bus.Subscribe("ping", func(ctx context.Context, e Event) { pings++ })
	bus.Subscribe("pong", func(ctx context.Context, e Event) { pongs++ })

	bus.Publish(context.Background(), testEvent{name: "ping"})
	bus.Publish(context.Background(), testEvent{name: "ping"})

	assert.Equal(t, 2, pings)
	assert.Equal(t, 0, pongs)
}

func TestPublishNoHandlers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), testEvent{name: "nobody-home"})
	})
}
