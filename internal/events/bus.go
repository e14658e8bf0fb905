// Package events carries cross-store notifications inside a session.
//
// The component that owns a piece of state publishes what happened to it;
// dependent stores subscribe and update themselves. No store ever writes
// into another store directly.
package events

import (
	"sync"

	"github.com/mmcdole/shelf/internal/domain"
)

// Event is implemented by every notification published on a Bus.
type Event interface {
	event()
}

// BooksLoaded is published after a bulk load settled successfully and the
// entity store holds the new data.
type BooksLoaded struct {
	Source      domain.Source
	Books       []domain.Book
	FavoriteIDs []int
}

// BooksDeleted is published after a delete settled successfully.
type BooksDeleted struct {
	IDs []int
}

// BookCreated is published after a create settled successfully.
type BookCreated struct {
	Book domain.Book
}

// SearchChanged is published whenever the search intent runs, even when
// the value is unchanged.
type SearchChanged struct {
	Value string
	Set   bool
}

// StatusChanged is published on every tracker transition.
type StatusChanged struct {
	Category domain.Category
	From     domain.Status
	To       domain.Status
}

func (BooksLoaded) event()   {}
func (BooksDeleted) event()  {}
func (BookCreated) event()   {}
func (SearchChanged) event() {}
func (StatusChanged) event() {}

// Handler receives published events.
type Handler func(Event)

// Bus is a synchronous fan-out. Handlers run on the publisher's goroutine,
// in subscription order, before Publish returns.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers []subscription
}

type subscription struct {
	id int
	fn Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.handlers {
			if s.id == id {
				b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every current subscriber.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	for i, s := range b.handlers {
		handlers[i] = s.fn
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
