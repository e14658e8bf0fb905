package library

import (
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/status"
	"github.com/mmcdole/shelf/internal/views"
)

// Queries provides synchronous reads of derived views.
// Returned slices and views are shared with the cache; do not modify them.
type Queries struct {
	st *state
}

func newQueries(st *state) *Queries {
	return &Queries{st: st}
}

func (q *Queries) FilteredIDs(mode domain.ListMode) []int {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.views.FilteredIDs(mode)
}

func (q *Queries) BookView(id int) (*domain.BookView, bool) {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.views.BookView(id)
}

// BookViews returns the composite views of FilteredIDs(mode) in order.
func (q *Queries) BookViews(mode domain.ListMode) []*domain.BookView {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()

	ids := q.st.views.FilteredIDs(mode)
	out := make([]*domain.BookView, 0, len(ids))
	for _, id := range ids {
		if v, ok := q.st.views.BookView(id); ok {
			out = append(out, v)
		}
	}
	return out
}

func (q *Queries) Book(id int) (domain.Book, error) {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()

	b, ok := q.st.books.Get(id)
	if !ok {
		return domain.Book{}, domain.ErrBookNotFound
	}
	return b, nil
}

func (q *Queries) Books() []domain.Book {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.views.Books()
}

func (q *Queries) IsFavorite(id int) bool {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.favorites.Has(id)
}

func (q *Queries) FavoriteIDs() []int {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.favorites.IDs()
}

func (q *Queries) AnySelected() bool {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.views.AnySelected()
}

func (q *Queries) SelectedIDs() []int {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.views.SelectedIDs()
}

func (q *Queries) SearchTitles(query string) []domain.Book {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.views.SearchTitles(query)
}

func (q *Queries) Suggest(query string, limit int) []search.Suggestion {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.views.Suggest(query, limit)
}

func (q *Queries) Alternates(query string, limit int) []domain.Book {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.views.Alternates(query, limit)
}

// Search returns the stored filter text, verbatim.
func (q *Queries) Search() (string, bool) {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.filter.Value()
}

func (q *Queries) Status(category domain.Category) domain.Status {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()

	tr, ok := q.st.trackers[category]
	if !ok {
		return domain.StatusIdle
	}
	return tr.Status()
}

// LastSavedID returns the id of the most recently created book.
func (q *Queries) LastSavedID() (int, bool) {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.lastSaved.ID()
}

// Source returns the source of the last successful load.
func (q *Queries) Source() (domain.Source, bool) {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.source, q.st.source != ""
}

// Coordinator returns a success coordinator watching category. Call stop
// when the consumer goes away.
func (q *Queries) Coordinator(category domain.Category) (c *status.Coordinator, stop func()) {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()

	c = status.NewCoordinator()
	tr, ok := q.st.trackers[category]
	if !ok {
		return c, func() {}
	}
	return c, c.Watch(tr)
}

// Stats returns the view recomputation counters.
func (q *Queries) Stats() views.Recomputations {
	q.st.mu.RLock()
	defer q.st.mu.RUnlock()
	return q.st.views.Stats()
}
