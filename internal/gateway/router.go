// Package gateway implements domain.Gateway over the local catalog and
// the remote gutendex source.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

// Local is the writable book source.
type Local interface {
	List(ctx context.Context) ([]domain.Book, error)
	Favorites(ctx context.Context) ([]int, error)
	Create(ctx context.Context, draft domain.BookDraft) (domain.Book, error)
	Update(ctx context.Context, book domain.Book) (domain.Book, error)
	Delete(ctx context.Context, ids []int) error
	// Reserve keeps Create from assigning ids up to maxID.
	Reserve(maxID int)
}

// Remote is a read-only book source without favorites.
type Remote interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
}

// Options configures a Router.
type Options struct {
	// ReadDelay is added before every list call.
	ReadDelay time.Duration
	// WriteDelay is added before every create, update and delete.
	WriteDelay time.Duration
	Logger     *slog.Logger
}

var _ domain.Gateway = (*Router)(nil)

// Router dispatches reads by source and sends every write to the local
// catalog, waiting the configured latency first. Ids served by the remote
// source are reserved in the catalog so a later create cannot reuse them.
type Router struct {
	local      Local
	remote     Remote
	readDelay  time.Duration
	writeDelay time.Duration
	logger     *slog.Logger
}

// NewRouter creates a router. remote may be nil, in which case remote
// loads fail with domain.ErrSourceUnavailable.
func NewRouter(local Local, remote Remote, opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		local:      local,
		remote:     remote,
		readDelay:  opts.ReadDelay,
		writeDelay: opts.WriteDelay,
		logger:     logger,
	}
}

func (r *Router) ListBooks(ctx context.Context, source domain.Source) ([]domain.Book, error) {
	if err := wait(ctx, r.readDelay); err != nil {
		return nil, err
	}
	switch source {
	case domain.SourceLocal:
		return r.local.List(ctx)
	case domain.SourceRemote:
		if r.remote == nil {
			return nil, domain.ErrSourceUnavailable
		}
		books, err := r.remote.ListBooks(ctx)
		if err != nil {
			return nil, err
		}
		r.local.Reserve(maxID(books))
		return books, nil
	default:
		r.logger.Warn("unknown source requested", "source", source)
		return nil, domain.ErrUnknownSource
	}
}

func (r *Router) ListFavoriteIDs(ctx context.Context, source domain.Source) ([]int, error) {
	if err := wait(ctx, r.readDelay); err != nil {
		return nil, err
	}
	switch source {
	case domain.SourceLocal:
		return r.local.Favorites(ctx)
	case domain.SourceRemote:
		return []int{}, nil
	default:
		return nil, domain.ErrUnknownSource
	}
}

func (r *Router) CreateBook(ctx context.Context, draft domain.BookDraft) (domain.Book, error) {
	if err := wait(ctx, r.writeDelay); err != nil {
		return domain.Book{}, err
	}
	return r.local.Create(ctx, draft)
}

func (r *Router) UpdateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	if err := wait(ctx, r.writeDelay); err != nil {
		return domain.Book{}, err
	}
	return r.local.Update(ctx, book)
}

func (r *Router) DeleteBooks(ctx context.Context, ids []int) error {
	if err := wait(ctx, r.writeDelay); err != nil {
		return err
	}
	return r.local.Delete(ctx, ids)
}

func maxID(books []domain.Book) int {
	n := 0
	for _, b := range books {
		n = max(n, b.ID)
	}
	return n
}

// wait sleeps for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
