package library

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/events"
	"github.com/mmcdole/shelf/internal/status"
)

// Commands are the session intents. Gateway-bound intents block on the
// gateway without holding the session lock; settlement is applied under
// it. A failed settlement leaves the category Rejected and is also
// returned as a *domain.OperationError for the caller's information.
type Commands struct {
	st      *state
	gateway domain.Gateway
	logger  *slog.Logger
}

func newCommands(st *state, gateway domain.Gateway, logger *slog.Logger) *Commands {
	return &Commands{st: st, gateway: gateway, logger: logger}
}

// begin issues a request for category.
func (c *Commands) begin(category domain.Category) (*status.Tracker, status.Ticket) {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	tr := c.st.trackers[category]
	ticket := tr.Begin()
	c.logger.Debug("request issued", "category", category, "requestID", ticket.RequestID)
	return tr, ticket
}

// settle records the outcome of ticket. The caller holds the write lock.
func (c *Commands) settle(tr *status.Tracker, ticket status.Ticket, err error) error {
	if !tr.Settle(ticket, err) {
		c.logger.Warn("stale settlement ignored by status",
			"category", ticket.Category, "requestID", ticket.RequestID, "error", err)
		if err != nil {
			return &domain.OperationError{Category: ticket.Category, RequestID: ticket.RequestID, Err: err}
		}
		return nil
	}
	if err != nil {
		c.logger.Error("request failed", "category", ticket.Category, "requestID", ticket.RequestID, "error", err)
		return &domain.OperationError{Category: ticket.Category, RequestID: ticket.RequestID, Err: err}
	}
	c.logger.Info("request settled", "category", ticket.Category, "requestID", ticket.RequestID)
	return nil
}

// Load replaces the session's books and favorites with the contents of
// source. Books and favorite ids are fetched concurrently; the load
// succeeds only if both do. A load that was overtaken by a newer one is
// discarded without touching any store.
func (c *Commands) Load(ctx context.Context, source domain.Source) error {
	tr, ticket := c.begin(domain.CategoryLoad)

	var (
		books       []domain.Book
		favoriteIDs []int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = c.gateway.ListBooks(gctx, source)
		return err
	})
	g.Go(func() error {
		var err error
		favoriteIDs, err = c.gateway.ListFavoriteIDs(gctx, source)
		return err
	})
	err := g.Wait()

	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	if !tr.Current(ticket) {
		c.logger.Warn("stale load discarded", "source", source, "requestID", ticket.RequestID, "error", err)
		if err != nil {
			return &domain.OperationError{Category: domain.CategoryLoad, RequestID: ticket.RequestID, Err: err}
		}
		return nil
	}

	if err == nil {
		c.st.books.ReplaceAll(books)
		c.st.source = source
		c.st.bus.Publish(events.BooksLoaded{Source: source, Books: books, FavoriteIDs: favoriteIDs})
		c.logger.Debug("books loaded", "source", source, "count", len(books), "favorites", len(favoriteIDs))
	}
	return c.settle(tr, ticket, err)
}

// Create asks the gateway to store draft and inserts the returned book.
func (c *Commands) Create(ctx context.Context, draft domain.BookDraft) (domain.Book, error) {
	tr, ticket := c.begin(domain.CategoryCreate)

	book, err := c.gateway.CreateBook(ctx, draft)

	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	if err == nil {
		c.st.books.InsertOne(book)
		c.st.bus.Publish(events.BookCreated{Book: book})
		c.logger.Debug("book created", "id", book.ID)
	}
	if err := c.settle(tr, ticket, err); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// Update sends book to the gateway and merges the accepted record into the
// store. A rejected update leaves the stored record as it was.
func (c *Commands) Update(ctx context.Context, book domain.Book) error {
	tr, ticket := c.begin(domain.CategoryUpdate)

	saved, err := c.gateway.UpdateBook(ctx, book)

	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	if err == nil {
		if !c.st.books.PatchOne(book.ID, domain.ChangesFrom(saved)) {
			c.logger.Debug("updated book is not in the store", "id", book.ID)
		}
	}
	return c.settle(tr, ticket, err)
}

// Delete removes ids through the gateway. On success the books leave the
// store, favorites drop them and the selection is cleared.
func (c *Commands) Delete(ctx context.Context, ids []int) error {
	tr, ticket := c.begin(domain.CategoryDelete)

	err := c.gateway.DeleteBooks(ctx, ids)

	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	if err == nil {
		removed := c.st.books.RemoveMany(ids)
		c.st.bus.Publish(events.BooksDeleted{IDs: ids})
		c.logger.Debug("books deleted", "requested", len(ids), "removed", len(removed))
	}
	return c.settle(tr, ticket, err)
}

// ToggleFavorite flips the favorite flag of id and returns the new value.
func (c *Commands) ToggleFavorite(id int) bool {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	return c.st.favorites.Toggle(id)
}

// SetSearch stores text verbatim as the title filter. Every call clears
// the selection, even when text is unchanged.
func (c *Commands) SetSearch(text string) {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	c.st.filter.Set(text)
	c.st.bus.Publish(events.SearchChanged{Value: text, Set: true})
}

// ClearSearch removes the title filter.
func (c *Commands) ClearSearch() {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	c.st.filter.Clear()
	c.st.bus.Publish(events.SearchChanged{})
}

// Select marks ids for batch deletion.
func (c *Commands) Select(ids ...int) {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	c.st.selection.AddMany(ids)
}

// Deselect unmarks id.
func (c *Commands) Deselect(id int) {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	c.st.selection.RemoveOne(id)
}

// DeselectAll empties the selection.
func (c *Commands) DeselectAll() {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	c.st.selection.ClearAll()
}

// ResetStatus moves category from Rejected back to Idle. Safe to call in
// any state.
func (c *Commands) ResetStatus(category domain.Category) bool {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	tr, ok := c.st.trackers[category]
	if !ok {
		return false
	}
	return tr.Reset()
}
