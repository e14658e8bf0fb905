package gutendex

import "github.com/mmcdole/shelf/internal/domain"

const (
	unknownAuthor  = "unknown"
	defaultPreface = "field for preface"
)

// MapBooks converts gutendex results to domain books
func MapBooks(results []Result) []domain.Book {
	books := make([]domain.Book, 0, len(results))
	for _, r := range results {
		books = append(books, MapBook(r))
	}
	return books
}

// MapBook converts one result. Only the first author is kept.
func MapBook(r Result) domain.Book {
	author := unknownAuthor
	if len(r.Authors) > 0 && r.Authors[0].Name != "" {
		author = r.Authors[0].Name
	}
	return domain.Book{
		ID:      r.ID,
		Title:   r.Title,
		Author:  author,
		Preface: defaultPreface,
	}
}
