package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmcdole/shelf/internal/domain"
)

// Seed is the initial content of a new catalog.
type Seed struct {
	Books     []domain.Book `yaml:"books"`
	Favorites []int         `yaml:"favorites"`
}

// DefaultPreface fills the preface of records that come without one.
const DefaultPreface = "field for preface"

// SampleSeed returns the built-in demo catalog. Book 102 is the record the
// default configuration rejects on update and delete.
func SampleSeed() Seed {
	book := func(id int, title, author string) domain.Book {
		return domain.Book{ID: id, Title: title, Author: author, Preface: DefaultPreface}
	}
	return Seed{
		Books: []domain.Book{
			book(101, "Calculus, part one", "Gilbert Strang"),
			book(102, "DEMO CASE - updating or deleting this book (alone or among multiple books) will fail", "Author Name"),
			book(103, "Calculus, part two", "Gilbert Strang"),
			book(104, "Calculus, part three", "Gilbert Strang"),
			book(105, "The basics of physics", "Steven Holzner"),
			book(106, "Transistor circuit basics", "Charles Pike"),
			book(107, "Calculus, part six", "Gilbert Strang"),
			book(108, "Calculus, part seven", "Gilbert Strang"),
			book(109, "Calculus, part eight", "Gilbert Strang"),
		},
		Favorites: []int{101, 103, 104},
	}
}

// loadSeed reads path, or returns the sample seed when path is empty.
func loadSeed(path string) (Seed, error) {
	if path == "" {
		return SampleSeed(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed file: %w", err)
	}
	for i := range seed.Books {
		if seed.Books[i].Preface == "" {
			seed.Books[i].Preface = DefaultPreface
		}
	}
	return seed, nil
}
