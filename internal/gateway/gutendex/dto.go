package gutendex

// BookList is the root of a /books/ response
type BookList struct {
	Count    int      `json:"count"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Results  []Result `json:"results"`
}

// Result is one book of a BookList page
type Result struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Authors       []Person `json:"authors"`
	Subjects      []string `json:"subjects,omitempty"`
	Languages     []string `json:"languages,omitempty"`
	DownloadCount int      `json:"download_count,omitempty"`
}

// Person is an author or translator
type Person struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year,omitempty"`
	DeathYear *int   `json:"death_year,omitempty"`
}
