package repository

import (
	"fmt"

	"github.com/Clark-Hu/movie-tracker/internal/domain"
)

// UsersRepository owns the session's user map. Every mutation rewrites the
// whole backing file through the saver.
type UsersRepository struct {
	users map[string]*domain.User
	saver UsersSaver
}

// Get fetches a user by username.
func (r *UsersRepository) Get(username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

// Exists reports whether username is taken.
func (r *UsersRepository) Exists(username string) bool {
	_, ok := r.users[username]
	return ok
}

// Count returns the number of users.
func (r *UsersRepository) Count() int {
	return len(r.users)
}

// Create adds a new user and persists the set.
func (r *UsersRepository) Create(u *domain.User) error {
	if _, ok := r.users[u.Username]; ok {
		return ErrAlreadyExists
	}
	r.users[u.Username] = u
	return r.Save()
}

// Update applies fn to the named user and persists the set. The in-memory
// change stands even when the save fails.
func (r *UsersRepository) Update(username string, fn func(u *domain.User)) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	fn(u)
	if err := r.Save(); err != nil {
		return u, err
	}
	return u, nil
}

// Save rewrites the backing file with the current user set.
func (r *UsersRepository) Save() error {
	if r.saver == nil {
		return nil
	}
	if err := r.saver.SaveUsers(r.users); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}
