package tui

import "github.com/mmcdole/shelf/internal/domain"

// Message types for the TUI

// OperationDoneMsg signals that a gateway-bound intent returned. The
// session already reflects the outcome; Err is informational.
type OperationDoneMsg struct {
	Category domain.Category
	Err      error
}

// BookCreatedMsg signals a successful create
type BookCreatedMsg struct {
	Book domain.Book
}
