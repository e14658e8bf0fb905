package library

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/mmcdole/shelf/internal/domain"
)

// stubGateway is an in-memory domain.Gateway. Calls can be held open with
// the hold channels to interleave settlements.
type stubGateway struct {
	mu        sync.Mutex
	books     map[domain.Source][]domain.Book
	favorites map[domain.Source][]int
	rejectIDs map[int]bool
	nextID    int

	holdList    map[domain.Source]chan struct{}
	listEntered chan domain.Source

	holdUpdate    chan struct{}
	updateEntered chan int
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		books: map[domain.Source][]domain.Book{
			domain.SourceLocal: {
				{ID: 101, Title: "Calculus, part one", Author: "Gilbert Strang", Preface: "field for preface"},
				{ID: 102, Title: "DEMO", Author: "Author Name", Preface: "field for preface"},
				{ID: 103, Title: "Calculus, part two", Author: "Gilbert Strang", Preface: "field for preface"},
				{ID: 104, Title: "Calculus, part three", Author: "Gilbert Strang", Preface: "field for preface"},
			},
			domain.SourceRemote: {
				{ID: 84, Title: "Frankenstein", Author: "Shelley, Mary Wollstonecraft"},
				{ID: 1342, Title: "Pride and Prejudice", Author: "Austen, Jane"},
			},
		},
		favorites: map[domain.Source][]int{
			domain.SourceLocal: {101, 103, 104},
		},
		rejectIDs: map[int]bool{102: true},
		nextID:    200,
		holdList:  map[domain.Source]chan struct{}{},
	}
}

func (g *stubGateway) ListBooks(ctx context.Context, source domain.Source) ([]domain.Book, error) {
	g.mu.Lock()
	hold := g.holdList[source]
	entered := g.listEntered
	g.mu.Unlock()

	if entered != nil {
		entered <- source
	}
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	books, ok := g.books[source]
	if !ok {
		return nil, domain.ErrUnknownSource
	}
	out := make([]domain.Book, len(books))
	copy(out, books)
	return out, nil
}

func (g *stubGateway) ListFavoriteIDs(_ context.Context, source domain.Source) ([]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.books[source]; !ok {
		return nil, domain.ErrUnknownSource
	}
	return append([]int(nil), g.favorites[source]...), nil
}

func (g *stubGateway) CreateBook(_ context.Context, draft domain.BookDraft) (domain.Book, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	return draft.Book(g.nextID), nil
}

func (g *stubGateway) UpdateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	g.mu.Lock()
	hold := g.holdUpdate
	entered := g.updateEntered
	g.holdUpdate = nil
	g.mu.Unlock()

	if entered != nil {
		entered <- book.ID
	}
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return domain.Book{}, ctx.Err()
		}
	}

	if g.rejectIDs[book.ID] {
		return domain.Book{}, fmt.Errorf("update %d: %w", book.ID, domain.ErrRejected)
	}
	book.LastModified = "12:00:00.000"
	return book, nil
}

func (g *stubGateway) DeleteBooks(_ context.Context, ids []int) error {
	for _, id := range ids {
		if g.rejectIDs[id] {
			return fmt.Errorf("delete %v: %w", ids, domain.ErrRejected)
		}
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T) (*Session, *stubGateway) {
	t.Helper()
	gw := newStubGateway()
	return NewSession(gw, discardLogger()), gw
}

func loadedSession(t *testing.T) (*Session, *stubGateway) {
	t.Helper()
	s, gw := newTestSession(t)
	if err := s.Load(context.Background(), domain.SourceLocal); err != nil {
		t.Fatalf("Load(local) error = %v", err)
	}
	return s, gw
}
