package status

import (
	"testing"

	"github.com/mmcdole/shelf/internal/domain"
)

func TestCoordinator_Observe(t *testing.T) {
	const (
		idle     = domain.StatusIdle
		loading  = domain.StatusLoading
		rejected = domain.StatusRejected
	)

	tests := []struct {
		name string
		seq  []domain.Status
		want bool
	}{
		{"never ran", []domain.Status{idle}, false},
		{"still loading", []domain.Status{idle, loading}, false},
		{"success edge", []domain.Status{loading, idle}, true},
		{"failure", []domain.Status{loading, rejected}, false},
		{"failure then reset idle", []domain.Status{loading, rejected, idle}, false},
		{"success then new request", []domain.Status{loading, idle, loading}, false},
		{"retry succeeds", []domain.Status{loading, rejected, loading, idle}, true},
		{"idle repeated after success", []domain.Status{loading, idle, idle}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoordinator()
			for _, s := range tt.seq {
				c.Observe(s)
			}
			if got := c.Succeeded(); got != tt.want {
				t.Fatalf("Succeeded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoordinator_RaisedOncePerEdge(t *testing.T) {
	c := NewCoordinator()
	c.Observe(domain.StatusLoading)
	c.Observe(domain.StatusIdle)
	c.Reset()

	// Idle again without a new Loading must not re-raise the signal.
	c.Observe(domain.StatusIdle)
	if c.Succeeded() {
		t.Fatal("signal re-raised without a new Loading edge")
	}
}

func TestCoordinator_WatchTracker(t *testing.T) {
	tr := NewTracker(domain.CategoryCreate)
	c := NewCoordinator()
	stop := c.Watch(tr)
	defer stop()

	if c.Succeeded() {
		t.Fatal("Succeeded() before any request")
	}

	ticket := tr.Begin()
	if c.Succeeded() {
		t.Fatal("Succeeded() while loading")
	}
	tr.Settle(ticket, nil)
	if !c.Succeeded() {
		t.Fatal("Succeeded() = false after Loading -> Idle")
	}

	tr.Begin()
	if c.Succeeded() {
		t.Fatal("new request did not clear the signal")
	}
}

func TestCoordinator_WatchStartsWhileLoading(t *testing.T) {
	tr := NewTracker(domain.CategoryLoad)
	ticket := tr.Begin()

	c := NewCoordinator()
	stop := c.Watch(tr)
	defer stop()

	tr.Settle(ticket, nil)
	if !c.Succeeded() {
		t.Fatal("coordinator attached mid-flight missed the success edge")
	}
}
