package store

import "github.com/mmcdole/shelf/internal/events"

// LastSaved remembers the id of the most recently created book.
type LastSaved struct {
	id  int
	set bool
}

// NewLastSaved creates an empty cell.
func NewLastSaved() *LastSaved {
	return &LastSaved{}
}

// ID returns the recorded id, if any.
func (l *LastSaved) ID() (int, bool) {
	return l.id, l.set
}

// Record stores id.
func (l *LastSaved) Record(id int) {
	l.id, l.set = id, true
}

// Bind records every created book.
func (l *LastSaved) Bind(bus *events.Bus) (unsubscribe func()) {
	return bus.Subscribe(func(ev events.Event) {
		if e, ok := ev.(events.BookCreated); ok {
			l.Record(e.Book.ID)
		}
	})
}
