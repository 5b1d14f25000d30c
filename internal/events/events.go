// Package events notifies subscribers about changes to the ledgers.
package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Collection string

const (
	Students Collection = "students"
	Meals    Collection = "meals"
	Expenses Collection = "expenses"
	All      Collection = "all"
)

type Action string

const (
	Created  Action = "created"
	Updated  Action = "updated"
	Deleted  Action = "deleted"
	Cleared  Action = "cleared"
	Imported Action = "imported"
)

// Event describes a committed change to a collection.
type Event struct {
	Collection Collection `json:"collection" example:"students"`                               // Collection that changed
	Action     Action     `json:"action" example:"updated"`                                    // What happened
	ID         *uuid.UUID `json:"id,omitempty" example:"65392deb-5e92-4268-b114-297faad6cdce"` // ID of the changed resource, if it is a single one
}

// Bus delivers events to observers and subscribers.
//
// Observers are called synchronously by Publish and must return quickly.
// Subscribers receive events on a channel. Publishing never blocks on
// them, events for subscribers whose buffer is full are dropped.
type Bus struct {
	mu          sync.RWMutex
	observers   map[uint64]func(Event)
	subscribers map[uint64]chan Event
	next        uint64
}

// Default is the bus the controllers publish to.
var Default = NewBus()

func NewBus() *Bus {
	return &Bus{
		observers:   make(map[uint64]func(Event)),
		subscribers: make(map[uint64]chan Event),
	}
}

// Observe registers a function that is called for every published event.
// The returned function removes the observer.
func (b *Bus) Observe(f func(Event)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.observers[id] = f
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.observers, id)
		b.mu.Unlock()
	}
}

// Subscribe returns a channel receiving all events published after the call
// and a function that ends the subscription and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subscribers[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish sends an event to all observers and subscribers.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, f := range b.observers {
		f(e)
	}

	for id, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
			log.Warn().Uint64("subscriber", id).Str("collection", string(e.Collection)).Str("action", string(e.Action)).Msg("dropping event for slow subscriber")
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
