// Package library is the session container and the intents the view layer
// dispatches against it. Commands reach the gateway; Queries only read
// derived views.
package library

import (
	"log/slog"
	"sync"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/events"
	"github.com/mmcdole/shelf/internal/status"
	"github.com/mmcdole/shelf/internal/store"
	"github.com/mmcdole/shelf/internal/views"
)

// state is every cell of one session behind a single lock. Mutations and
// the notifications they publish run under the write lock so a reader
// never sees half of a multi-store update.
type state struct {
	mu sync.RWMutex

	books     *store.Books
	favorites *store.Favorites
	selection *store.Selection
	filter    *store.Filter
	trackers  map[domain.Category]*status.Tracker

	bus   *events.Bus
	views *views.Engine

	lastSaved *store.LastSaved
	source    domain.Source
}

func newState() *state {
	st := &state{
		books:     store.NewBooks(),
		favorites: store.NewFavorites(),
		selection: store.NewSelection(),
		filter:    store.NewFilter(),
		lastSaved: store.NewLastSaved(),
		trackers:  make(map[domain.Category]*status.Tracker, len(domain.Categories)),
		bus:       events.NewBus(),
	}
	st.views = views.NewEngine(views.Stores{
		Books:     st.books,
		Favorites: st.favorites,
		Selection: st.selection,
		Filter:    st.filter,
	})

	st.favorites.Bind(st.bus)
	st.selection.Bind(st.bus)
	st.lastSaved.Bind(st.bus)

	for _, c := range domain.Categories {
		tr := status.NewTracker(c)
		tr.Subscribe(func(t status.Transition) {
			st.bus.Publish(events.StatusChanged{Category: t.Category, From: t.From, To: t.To})
		})
		st.trackers[c] = tr
	}
	return st
}

// Session is one in-memory client session: the stores, the four status
// trackers and the gateway they settle against.
type Session struct {
	*Commands
	*Queries

	st *state
}

// NewSession creates an empty session bound to gateway.
func NewSession(gateway domain.Gateway, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	st := newState()
	return &Session{
		Commands: newCommands(st, gateway, logger),
		Queries:  newQueries(st),
		st:       st,
	}
}

// Subscribe registers fn for every session notification. Handlers run
// while the session is locked and must not call back into it.
func (s *Session) Subscribe(fn events.Handler) (unsubscribe func()) {
	return s.st.bus.Subscribe(fn)
}
