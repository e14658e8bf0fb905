// Package search implements the title search policy used by the list views
// and the ranked helpers built on top of it.
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/mmcdole/shelf/internal/domain"
)

// MinQueryLength is the shortest trimmed query that is matched at all.
const MinQueryLength = 3

// QueryKind classifies a raw query under the search policy.
type QueryKind int

const (
	// QueryEmpty is an empty or whitespace-only query; nothing is filtered.
	QueryEmpty QueryKind = iota
	// QueryTooShort is a trimmed query of 1 or 2 characters; nothing matches.
	QueryTooShort
	// QueryValid is matched as a case-insensitive title substring.
	QueryValid
)

// Classify applies the trimming and length policy to raw.
func Classify(raw string) (QueryKind, string) {
	trimmed := strings.TrimSpace(raw)
	switch n := utf8.RuneCountInString(trimmed); {
	case n == 0:
		return QueryEmpty, ""
	case n < MinQueryLength:
		return QueryTooShort, trimmed
	default:
		return QueryValid, trimmed
	}
}

// ByTitle filters books by raw query:
//   - empty or whitespace-only: books is returned unfiltered
//   - 1 or 2 characters after trimming: no books
//   - otherwise: books whose title contains the trimmed query, ignoring case
//
// Input order is preserved and books is never modified.
func ByTitle(books []domain.Book, raw string) []domain.Book {
	kind, query := Classify(raw)
	switch kind {
	case QueryEmpty:
		return books
	case QueryTooShort:
		return []domain.Book{}
	}

	needle := strings.ToLower(query)
	out := make([]domain.Book, 0)
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), needle) {
			out = append(out, b)
		}
	}
	return out
}
