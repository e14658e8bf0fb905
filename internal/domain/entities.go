package domain

// Book is the record kept in the entity store.
// ID is assigned by the gateway and never changes afterwards.
type Book struct {
	ID           int    `json:"id" yaml:"id" cbor:"1,keyasint"`
	Title        string `json:"title" yaml:"title" cbor:"2,keyasint"`
	Author       string `json:"author" yaml:"author" cbor:"3,keyasint"`
	Preface      string `json:"preface" yaml:"preface" cbor:"4,keyasint"`
	LastModified string `json:"lastModified,omitempty" yaml:"lastModified,omitempty" cbor:"5,keyasint,omitempty"`
}

// BookDraft is the payload of a create request; the gateway assigns the ID.
type BookDraft struct {
	Title   string
	Author  string
	Preface string
}

// Book returns the draft as a record carrying the given id.
func (d BookDraft) Book(id int) Book {
	return Book{ID: id, Title: d.Title, Author: d.Author, Preface: d.Preface}
}

// BookChanges is a partial update. Nil fields are left untouched.
// There is deliberately no ID field: a patch can never re-key a record.
type BookChanges struct {
	Title        *string
	Author       *string
	Preface      *string
	LastModified *string
}

// ChangesFrom builds a full patch from a record, dropping its ID.
func ChangesFrom(b Book) BookChanges {
	return BookChanges{
		Title:        &b.Title,
		Author:       &b.Author,
		Preface:      &b.Preface,
		LastModified: &b.LastModified,
	}
}

// Apply merges the changes into b and reports whether anything differed.
func (c BookChanges) Apply(b *Book) bool {
	changed := false
	set := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}
	set(&b.Title, c.Title)
	set(&b.Author, c.Author)
	set(&b.Preface, c.Preface)
	set(&b.LastModified, c.LastModified)
	return changed
}

// BookView is the composite per-book view handed to the presentation layer.
// It is always derived, never stored.
type BookView struct {
	Book
	IsAddedToFavorites    bool
	IsSelectedForDeleting bool
}

// ListMode selects which list the derived views produce.
type ListMode int

const (
	// ListAll applies the active title filter to every book.
	ListAll ListMode = iota
	// ListFavorites shows favorite books only and ignores the filter.
	ListFavorites
)

func (m ListMode) String() string {
	if m == ListFavorites {
		return "favorites"
	}
	return "all"
}

// Source selects where the bulk load reads from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Valid reports whether s names a known data source.
func (s Source) Valid() bool {
	return s == SourceLocal || s == SourceRemote
}
