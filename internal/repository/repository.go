package repository

import (
	"errors"

	"github.com/Clark-Hu/movie-tracker/internal/domain"
	"github.com/Clark-Hu/movie-tracker/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrAlreadyExists indicates a create collided with an existing key.
var ErrAlreadyExists = errors.New("repository: already exists")

// Repository aggregates the in-memory catalog and user set for one session.
type Repository struct {
	Movies *MoviesRepository
	Users  *UsersRepository
}

// UsersSaver persists the full user set.
type UsersSaver interface {
	SaveUsers(users map[string]*domain.User) error
}

// New loads both files through the store. Load problems are logged by the
// store and surface here only as an empty or partial repository.
func New(st *store.Store) *Repository {
	catalog, _ := st.LoadCatalog()
	users, _ := st.LoadUsers()
	return NewWithData(catalog, users, st)
}

// NewWithData builds repositories over already-loaded data.
func NewWithData(catalog *domain.Catalog, users map[string]*domain.User, saver UsersSaver) *Repository {
	if catalog == nil {
		catalog = domain.NewCatalog()
	}
	if users == nil {
		users = make(map[string]*domain.User)
	}
	return &Repository{
		Movies: &MoviesRepository{catalog: catalog},
		Users:  &UsersRepository{users: users, saver: saver},
	}
}
