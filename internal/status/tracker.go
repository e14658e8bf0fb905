// Package status tracks the lifecycle of async operation categories.
package status

import (
	"sync"

	"github.com/google/uuid"
	"github.com/mmcdole/shelf/internal/domain"
)

// Ticket identifies one issued request of a category.
type Ticket struct {
	Category  domain.Category
	Seq       uint64
	RequestID string
}

// Transition describes one observed status change.
// From and To are equal when a request is issued while one is in flight.
type Transition struct {
	Category  domain.Category
	From      domain.Status
	To        domain.Status
	RequestID string
}

// Tracker is the Idle/Loading/Rejected machine of one category.
//
//	Idle|Rejected --Begin--> Loading
//	Loading --Settle(nil)--> Idle
//	Loading --Settle(err)--> Rejected
//	Rejected --Reset--> Idle
//
// Only the most recently issued ticket can settle the tracker; settling an
// older ticket is reported as stale and leaves the status alone.
type Tracker struct {
	category domain.Category

	mu        sync.Mutex
	status    domain.Status
	seq       uint64
	nextSub   int
	observers []observer
}

type observer struct {
	id int
	fn func(Transition)
}

// NewTracker creates an Idle tracker for category.
func NewTracker(category domain.Category) *Tracker {
	return &Tracker{category: category}
}

// Category returns the tracked category.
func (t *Tracker) Category() domain.Category {
	return t.category
}

// Status returns the current status.
func (t *Tracker) Status() domain.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Begin records a newly issued request. Valid from any state.
func (t *Tracker) Begin() Ticket {
	t.mu.Lock()
	t.seq++
	ticket := Ticket{Category: t.category, Seq: t.seq, RequestID: uuid.NewString()}
	tr := t.moveLocked(domain.StatusLoading, ticket.RequestID)
	fns := t.observersLocked()
	t.mu.Unlock()

	notify(fns, tr)
	return ticket
}

// Current reports whether ticket is the outstanding request, i.e. whether
// settling it now would take effect.
func (t *Tracker) Current(ticket Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ticket.Seq == t.seq && t.status == domain.StatusLoading
}

// Settle records the outcome of ticket's request. It returns false, and
// changes nothing, when a newer request was issued after ticket.
func (t *Tracker) Settle(ticket Ticket, err error) bool {
	t.mu.Lock()
	if ticket.Seq != t.seq || t.status != domain.StatusLoading {
		t.mu.Unlock()
		return false
	}
	to := domain.StatusIdle
	if err != nil {
		to = domain.StatusRejected
	}
	tr := t.moveLocked(to, ticket.RequestID)
	fns := t.observersLocked()
	t.mu.Unlock()

	notify(fns, tr)
	return true
}

// Reset moves Rejected back to Idle. It is a no-op in any other state and
// reports whether a transition happened.
func (t *Tracker) Reset() bool {
	t.mu.Lock()
	if t.status != domain.StatusRejected {
		t.mu.Unlock()
		return false
	}
	tr := t.moveLocked(domain.StatusIdle, "")
	fns := t.observersLocked()
	t.mu.Unlock()

	notify(fns, tr)
	return true
}

// Subscribe registers fn for every transition. Observers are called
// outside the tracker lock, in subscription order.
func (t *Tracker) Subscribe(fn func(Transition)) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextSub++
	id := t.nextSub
	t.observers = append(t.observers, observer{id: id, fn: fn})

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, o := range t.observers {
			if o.id == id {
				t.observers = append(t.observers[:i:i], t.observers[i+1:]...)
				return
			}
		}
	}
}

func (t *Tracker) moveLocked(to domain.Status, requestID string) Transition {
	tr := Transition{Category: t.category, From: t.status, To: to, RequestID: requestID}
	t.status = to
	return tr
}

func (t *Tracker) observersLocked() []func(Transition) {
	fns := make([]func(Transition), len(t.observers))
	for i, o := range t.observers {
		fns[i] = o.fn
	}
	return fns
}

func notify(fns []func(Transition), tr Transition) {
	for _, fn := range fns {
		fn(tr)
	}
}
