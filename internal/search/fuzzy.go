package search

import (
	"sort"
	"strings"

	levenshtein "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/shelf/internal/domain"
)

// Suggestion is one ranked autocomplete entry.
type Suggestion struct {
	Book     domain.Book
	Distance int // Levenshtein distance between query and title (lower = closer)
}

// Suggest returns autocomplete entries for raw, at most limit of them when
// limit > 0. The matched set is exactly ByTitle's for a valid query;
// entries are ordered by how close the whole title is to the query, ties
// keeping input order. Empty and too-short queries suggest nothing.
func Suggest(books []domain.Book, raw string, limit int) []Suggestion {
	kind, query := Classify(raw)
	if kind != QueryValid {
		return nil
	}

	needle := strings.ToLower(query)
	matches := ByTitle(books, query)
	out := make([]Suggestion, len(matches))
	for i, b := range matches {
		out[i] = Suggestion{
			Book:     b,
			Distance: levenshtein.LevenshteinDistance(needle, strings.ToLower(b.Title)),
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Alternates returns up to limit "did you mean" books for a valid query
// that has no title substring match, best subsequence match first.
// It returns nil whenever ByTitle would find something.
func Alternates(books []domain.Book, raw string, limit int) []domain.Book {
	kind, query := Classify(raw)
	if kind != QueryValid || len(ByTitle(books, query)) > 0 {
		return nil
	}

	titles := make([]string, len(books))
	for i, b := range books {
		titles[i] = strings.ToLower(b.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), titles)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]domain.Book, len(matches))
	for i, m := range matches {
		out[i] = books[m.Index]
	}
	return out
}
