package status

import (
	"sync"

	"github.com/mmcdole/shelf/internal/domain"
)

// Coordinator turns a Loading -> Idle edge into a one-shot success signal.
//
// Idle alone is ambiguous: it is both the resting state and the state right
// after a success. The coordinator remembers that it saw Loading so it can
// tell "just finished" from "never ran".
type Coordinator struct {
	mu         sync.Mutex
	wasLoading bool
	succeeded  bool
}

// NewCoordinator creates a coordinator with no signal raised.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Observe feeds the next observed status.
func (c *Coordinator) Observe(s domain.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case s == domain.StatusLoading:
		// a new operation never inherits an old success
		c.wasLoading = true
		c.succeeded = false
	case c.wasLoading && s == domain.StatusIdle:
		c.succeeded = true
		c.wasLoading = false
	case c.wasLoading && s == domain.StatusRejected:
		c.wasLoading = false
	}
}

// Succeeded reports whether the signal is raised.
func (c *Coordinator) Succeeded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.succeeded
}

// Reset lowers the signal.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.succeeded = false
}

// Watch observes t's current status and every later transition until
// stop is called.
func (c *Coordinator) Watch(t *Tracker) (stop func()) {
	stop = t.Subscribe(func(tr Transition) {
		c.Observe(tr.To)
	})
	c.Observe(t.Status())
	return stop
}
