package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrBookNotFound indicates the requested book does not exist
	ErrBookNotFound = errors.New("book not found")

	// ErrRejected indicates the gateway refused the operation
	ErrRejected = errors.New("operation rejected by gateway")

	// ErrSourceUnavailable indicates the data source is unreachable
	ErrSourceUnavailable = errors.New("data source is unreachable")

	// ErrUnknownSource indicates an unsupported source selector
	ErrUnknownSource = errors.New("unknown data source")

	// ErrInvalidDraft indicates a form failed validation before dispatch
	ErrInvalidDraft = errors.New("invalid book data")
)

// OperationError reports a failed settlement of one operation category.
type OperationError struct {
	Category  Category
	RequestID string
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Category, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
