package domain

import "slices"

// User holds an account and its watch state. Watchlist and History keep
// insertion order and never contain duplicates.
type User struct {
	Username  string
	Password  string
	Watchlist []string
	History   []string
}

// NewUser creates a user with empty watch state.
func NewUser(username, password string) *User {
	return &User{
		Username:  username,
		Password:  password,
		Watchlist: []string{},
		History:   []string{},
	}
}

// SetPassword replaces the stored credential.
func (u *User) SetPassword(password string) {
	u.Password = password
}

// AddToWatchlist appends movieID unless it is already listed.
func (u *User) AddToWatchlist(movieID string) {
	if !contains(u.Watchlist, movieID) {
		u.Watchlist = append(u.Watchlist, movieID)
	}
}

// RemoveFromWatchlist drops movieID from the watchlist if present.
func (u *User) RemoveFromWatchlist(movieID string) {
	u.Watchlist = remove(u.Watchlist, movieID)
}

// MarkAsWatched records movieID in the history once and takes it off the watchlist.
func (u *User) MarkAsWatched(movieID string) {
	if !contains(u.History, movieID) {
		u.History = append(u.History, movieID)
	}
	u.RemoveFromWatchlist(movieID)
}

// InWatchlist reports whether movieID is on the watchlist.
func (u *User) InWatchlist(movieID string) bool {
	return contains(u.Watchlist, movieID)
}

// HasWatched reports whether movieID is in the history.
func (u *User) HasWatched(movieID string) bool {
	return contains(u.History, movieID)
}

func contains(ids []string, id string) bool {
	return slices.Contains(ids, id)
}

func remove(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(slices.Clone(ids), i, i+1)
	}
	return ids
}
