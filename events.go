package reko

// EventKind discriminates renderer events.
type EventKind int

const (
	// EventBackendReady fires once per successful backend initialization,
	// including a fallback taking over after the primary failed.
	EventBackendReady EventKind = iota
	// EventError carries a non-fatal error (recovered frame panic, pass
	// failure). The renderer keeps running after publishing it.
	EventError
	// EventStats carries a periodic RenderStats snapshot.
	EventStats
)

// Event is what the renderer publishes on its channel. Consumers receive,
// they never call back into the renderer from the channel.
type Event struct {
	Kind    EventKind
	Backend string
	Err     error
	Stats   RenderStats
}

// eventBus is a bounded, drop-on-overflow publisher. The frame loop must
// never block on a slow consumer; a dropped stats snapshot is replaced by
// the next one anyway.
type eventBus struct {
	ch chan Event
}

func newEventBus(capacity int) *eventBus {
	if capacity <= 0 {
		capacity = 64
	}
	return &eventBus{ch: make(chan Event, capacity)}
}

func (b *eventBus) publish(e Event) {
	select {
	case b.ch <- e:
	default:
	}
}

func (b *eventBus) events() <-chan Event { return b.ch }
