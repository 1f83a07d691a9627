package repository

import (
	"github.com/Clark-Hu/movie-tracker/internal/domain"
)

// MoviesRepository gives read access to the catalog.
type MoviesRepository struct {
	catalog *domain.Catalog
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(id string) (domain.Movie, error) {
	movie, ok := r.catalog.Get(id)
	if !ok {
		return domain.Movie{}, ErrNotFound
	}
	return movie, nil
}

// Exists reports whether id is a known movie.
func (r *MoviesRepository) Exists(id string) bool {
	return r.catalog.Contains(id)
}

// List returns every movie ordered by id.
func (r *MoviesRepository) List() []domain.Movie {
	return r.catalog.SortedByID()
}

// Resolve maps ids to movies, keeping order and dropping unknown ids.
func (r *MoviesRepository) Resolve(ids []string) []domain.Movie {
	out := make([]domain.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.catalog.Get(id); ok {
			out = append(out, m)
		}
	}
	return out
}

// Count returns the catalog size.
func (r *MoviesRepository) Count() int {
	return r.catalog.Len()
}

// Catalog exposes the underlying catalog for the recommendation engine.
func (r *MoviesRepository) Catalog() *domain.Catalog {
	return r.catalog
}
