package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Movie represents a catalog entry. Movies are built once during catalog load
// and never mutated afterwards.
type Movie struct {
	ID     string
	Title  string
	Genre  *string
	Year   int
	Rating float64
}

// GenreName returns the genre or an empty string when the movie has none.
func (m Movie) GenreName() string {
	if m.Genre == nil {
		return ""
	}
	return *m.Genre
}

// String renders the movie the way listings print it.
func (m Movie) String() string {
	genre := "null"
	if m.Genre != nil {
		genre = *m.Genre
	}
	return fmt.Sprintf("%s | %s (%d) - %s - %s", m.ID, m.Title, m.Year, genre, formatRating(m.Rating))
}

// formatRating prints the shortest exact decimal, keeping ".0" on whole
// numbers so 8 reads as 8.0.
func formatRating(r float64) string {
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// Catalog is an id-keyed set of movies that remembers insertion order.
type Catalog struct {
	order []string
	byID  map[string]Movie
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[string]Movie)}
}

// Put stores a movie. A movie whose id is already present replaces the old
// entry in place, keeping its original position.
func (c *Catalog) Put(m Movie) {
	if _, ok := c.byID[m.ID]; !ok {
		c.order = append(c.order, m.ID)
	}
	c.byID[m.ID] = m
}

// Get looks a movie up by id.
func (c *Catalog) Get(id string) (Movie, bool) {
	if c == nil {
		return Movie{}, false
	}
	m, ok := c.byID[id]
	return m, ok
}

// Contains reports whether id is in the catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// Len returns the number of distinct movies.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// All returns the movies in catalog order.
func (c *Catalog) All() []Movie {
	if c == nil {
		return nil
	}
	out := make([]Movie, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// SortedByID returns the movies ordered by id, as used for browsing.
func (c *Catalog) SortedByID() []Movie {
	out := c.All()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
