package domain

import "context"

// Gateway is the remote side of the session. The session depends only on
// this request/response/error contract; implementations live in
// internal/gateway.
type Gateway interface {
	// ListBooks returns every book of the selected source
	ListBooks(ctx context.Context, src Source) ([]Book, error)

	// ListFavoriteIDs returns the favorite book ids of the selected source
	ListFavoriteIDs(ctx context.Context, src Source) ([]int, error)

	// CreateBook stores a draft and returns it with a newly assigned ID
	CreateBook(ctx context.Context, draft BookDraft) (Book, error)

	// UpdateBook replaces a book and returns what the gateway stored.
	// May fail with ErrRejected for a gateway-defined subset of inputs.
	UpdateBook(ctx context.Context, book Book) (Book, error)

	// DeleteBooks removes the given ids as one batch.
	// May fail with ErrRejected for a gateway-defined subset of inputs.
	DeleteBooks(ctx context.Context, ids []int) error
}
