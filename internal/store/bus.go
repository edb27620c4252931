package store

import "sync"

// EventKind labels a store event.
type EventKind string

const (
	EventCreated       EventKind = "created"
	EventUpdated       EventKind = "updated"
	EventStatusChanged EventKind = "status-changed"
	EventDeleted       EventKind = "deleted"
	EventRefreshed     EventKind = "refreshed"
	EventReverted      EventKind = "reverted"
)

// Event is fanned out to all subscribers after the snapshot changes.
type Event struct {
	Kind EventKind
	// TaskID is set for single-record events; empty for refreshed.
	TaskID string
	// Err is set on reverted events with the failure that undid the edit.
	Err error
}

const subscriberBuffer = 16

// Bus fans events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event and is expected to resync on the
// next refreshed event it does see.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber. The returned cancel func removes
// the subscription and closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Publish delivers e to every subscriber with buffer room.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
