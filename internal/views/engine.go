package views

import (
	"sync"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/store"
)

// Stores are the state cells the engine reads. The engine never writes
// to them.
type Stores struct {
	Books     *store.Books
	Favorites *store.Favorites
	Selection *store.Selection
	Filter    *store.Filter
}

type booksKey struct {
	books uint64
}

type allKey struct {
	books  uint64
	filter uint64
}

type favKey struct {
	books     uint64
	favorites uint64
}

type selKey struct {
	selection uint64
}

type queryKey struct {
	books uint64
	query string
}

type suggestKey struct {
	books uint64
	query string
	limit int
}

type viewKey struct {
	book     domain.Book
	favorite bool
	selected bool
}

// Engine computes derived views over Stores. Results are cached on store
// revisions, so repeated reads with unchanged inputs return the same slice
// or pointer. Returned values are shared and must not be modified.
//
// Reads must not race with writes to the stores; the caller holds whatever
// lock guards them.
type Engine struct {
	src Stores

	books       Memo[booksKey, []domain.Book]
	filtered    Memo[allKey, []int]
	favorites   Memo[favKey, []int]
	selected    Memo[selKey, []int]
	titles      Memo[queryKey, []domain.Book]
	suggestions Memo[suggestKey, []search.Suggestion]
	bookViews   MemoMap[int, viewKey, *domain.BookView]

	pruneMu  sync.Mutex
	viewsRev uint64
}

// NewEngine creates an engine reading src.
func NewEngine(src Stores) *Engine {
	return &Engine{src: src}
}

// Books returns every book in store order.
func (e *Engine) Books() []domain.Book {
	return e.books.Get(booksKey{e.src.Books.Revision()}, e.src.Books.All)
}

// FilteredIDs returns the ids shown for mode. ListAll applies the title
// search with the current filter; ListFavorites keeps favorited books and
// ignores the filter.
func (e *Engine) FilteredIDs(mode domain.ListMode) []int {
	if mode == domain.ListFavorites {
		return e.favoriteIDs()
	}

	key := allKey{books: e.src.Books.Revision(), filter: e.src.Filter.Revision()}
	return e.filtered.Get(key, func() []int {
		query, _ := e.src.Filter.Value()
		return idsOf(search.ByTitle(e.Books(), query))
	})
}

func (e *Engine) favoriteIDs() []int {
	key := favKey{books: e.src.Books.Revision(), favorites: e.src.Favorites.Revision()}
	return e.favorites.Get(key, func() []int {
		out := make([]int, 0, e.src.Favorites.Len())
		for _, id := range e.src.Books.IDs() {
			if e.src.Favorites.Has(id) {
				out = append(out, id)
			}
		}
		return out
	})
}

// BookView returns the composite view of id. The pointer stays the same
// until the book, its favorite flag, or its selection flag changes.
func (e *Engine) BookView(id int) (*domain.BookView, bool) {
	e.pruneViews()

	book, ok := e.src.Books.Get(id)
	if !ok {
		e.bookViews.Forget(id)
		return nil, false
	}

	key := viewKey{
		book:     book,
		favorite: e.src.Favorites.Has(id),
		selected: e.src.Selection.Has(id),
	}
	return e.bookViews.Get(id, key, func() *domain.BookView {
		return &domain.BookView{
			Book:                  key.book,
			IsAddedToFavorites:    key.favorite,
			IsSelectedForDeleting: key.selected,
		}
	}), true
}

// pruneViews drops cached views of removed books once per books revision.
func (e *Engine) pruneViews() {
	e.pruneMu.Lock()
	defer e.pruneMu.Unlock()

	rev := e.src.Books.Revision()
	if rev == e.viewsRev {
		return
	}
	e.viewsRev = rev
	e.bookViews.Retain(func(id int) bool {
		_, ok := e.src.Books.Get(id)
		return ok
	})
}

// AnySelected reports whether any book is marked for deletion.
func (e *Engine) AnySelected() bool {
	return e.src.Selection.Any()
}

// SelectedIDs returns the ids marked for deletion, ascending.
func (e *Engine) SelectedIDs() []int {
	return e.selected.Get(selKey{e.src.Selection.Revision()}, e.src.Selection.IDs)
}

// SearchTitles runs the title search over every book for an ad hoc query,
// independent of the stored filter. The autocomplete box uses it.
func (e *Engine) SearchTitles(query string) []domain.Book {
	key := queryKey{books: e.src.Books.Revision(), query: query}
	return e.titles.Get(key, func() []domain.Book {
		return search.ByTitle(e.Books(), query)
	})
}

// Suggest returns ranked autocomplete entries for query.
func (e *Engine) Suggest(query string, limit int) []search.Suggestion {
	key := suggestKey{books: e.src.Books.Revision(), query: query, limit: limit}
	return e.suggestions.Get(key, func() []search.Suggestion {
		return search.Suggest(e.Books(), query, limit)
	})
}

// Alternates returns "did you mean" books for a query with no direct match.
func (e *Engine) Alternates(query string, limit int) []domain.Book {
	return search.Alternates(e.Books(), query, limit)
}

// Recomputations reports how often each cached view has been rebuilt.
type Recomputations struct {
	Books       int
	Filtered    int
	Favorites   int
	Selected    int
	Titles      int
	Suggestions int
}

// Stats returns the engine's recomputation counters.
func (e *Engine) Stats() Recomputations {
	return Recomputations{
		Books:       e.books.Recomputations(),
		Filtered:    e.filtered.Recomputations(),
		Favorites:   e.favorites.Recomputations(),
		Selected:    e.selected.Recomputations(),
		Titles:      e.titles.Recomputations(),
		Suggestions: e.suggestions.Recomputations(),
	}
}

func idsOf(books []domain.Book) []int {
	out := make([]int, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}
