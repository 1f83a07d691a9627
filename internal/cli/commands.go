package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Clark-Hu/movie-tracker/internal/auth"
	"github.com/Clark-Hu/movie-tracker/internal/domain"
)

func (a *App) login() error {
	username, err := a.prompt("Username: ")
	if err != nil {
		return err
	}
	password, err := a.prompt("Password: ")
	if err != nil {
		return err
	}
	session, err := a.auth.Login(strings.TrimSpace(username), strings.TrimSpace(password))
	if err != nil {
		a.printf("Login failed.\n")
		return nil
	}
	a.session = session
	a.printf("Logged in as %s\n", session.Username())
	return nil
}

func (a *App) register() error {
	a.printf("\n--- Register New User ---\n")
	username, err := a.prompt("Username: ")
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		a.printf("Username cannot be empty.\n")
		return nil
	}
	if a.repo.Users.Exists(username) {
		a.printf("Username already exists.\n")
		return nil
	}
	password, err := a.prompt("Password (min " + strconv.Itoa(a.auth.MinPasswordLength()) + " chars): ")
	if err != nil {
		return err
	}
	confirm, err := a.prompt("Confirm password: ")
	if err != nil {
		return err
	}

	_, err = a.auth.Register(auth.RegisterRequest{Username: username, Password: password, Confirm: confirm})
	switch {
	case err == nil:
		a.printf("Register success. You can login now.\n")
	case errors.Is(err, auth.ErrEmptyUsername):
		a.printf("Username cannot be empty.\n")
	case errors.Is(err, auth.ErrUserExists):
		a.printf("Username already exists.\n")
	default:
		a.printPasswordError(err)
	}
	return nil
}

func (a *App) changePassword() error {
	a.printf("\n--- Change Password ---\n")
	current, err := a.prompt("Current password: ")
	if err != nil {
		return err
	}
	next, err := a.prompt("New password (min " + strconv.Itoa(a.auth.MinPasswordLength()) + " chars): ")
	if err != nil {
		return err
	}
	confirm, err := a.prompt("Confirm new password: ")
	if err != nil {
		return err
	}

	err = a.auth.ChangePassword(a.session, current, next, confirm)
	switch {
	case err == nil:
		a.printf("Password updated.\n")
	case errors.Is(err, auth.ErrInvalidCredentials):
		a.printf("Current password incorrect.\n")
	default:
		a.printPasswordError(err)
	}
	return nil
}

func (a *App) printPasswordError(err error) {
	switch {
	case errors.Is(err, auth.ErrPasswordMismatch):
		a.printf("Passwords do not match.\n")
	case errors.Is(err, auth.ErrPasswordTooShort):
		a.printf("Password too short.\n")
	default:
		a.logger.Error().Err(err).Msg("cli: account operation failed")
		a.printf("Operation failed.\n")
	}
}

func (a *App) logout() {
	a.printf("Logging out %s\n", a.session.Username())
	a.logger.Info().Str("session", a.session.ID.String()).Msg("cli: logged out")
	a.session = nil
}

func (a *App) browseMovies() {
	a.printf("--- All movies ---\n")
	a.printMovies(a.repo.Movies.List())
}

func (a *App) viewWatchlist() {
	a.printf("--- Watchlist ---\n")
	a.printMovies(a.repo.Movies.Resolve(a.session.User.Watchlist))
}

func (a *App) viewHistory() {
	a.printf("--- History ---\n")
	a.printMovies(a.repo.Movies.Resolve(a.session.User.History))
}

func (a *App) addToWatchlist() error {
	id, err := a.prompt("Enter movie ID to add (e.g. M001): ")
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if !a.repo.Movies.Exists(id) {
		a.printf("Movie not found.\n")
		return nil
	}
	a.mutate(func(u *domain.User) { u.AddToWatchlist(id) })
	a.printf("Added.\n")
	return nil
}

func (a *App) removeFromWatchlist() error {
	id, err := a.prompt("Enter movie ID to remove: ")
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	a.mutate(func(u *domain.User) { u.RemoveFromWatchlist(id) })
	a.printf("Removed if existed.\n")
	return nil
}

func (a *App) markWatched() error {
	id, err := a.prompt("Enter movie ID to mark watched: ")
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if !a.repo.Movies.Exists(id) {
		a.printf("Movie not found.\n")
		return nil
	}
	a.mutate(func(u *domain.User) { u.MarkAsWatched(id) })
	a.printf("Marked as watched.\n")
	return nil
}

func (a *App) recommend() error {
	raw, err := a.prompt("Top N? ")
	if err != nil {
		return err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(raw))
	if convErr != nil {
		n = a.topN
	}
	recs := a.engine.RecommendByGenre(a.session.User, n)
	if len(recs) == 0 {
		a.printf("No recommendations available.\n")
		return nil
	}
	a.printMovies(recs)
	return nil
}

// mutate applies fn to the session user and rewrites the user file. A failed
// save leaves the in-memory change in place.
func (a *App) mutate(fn func(u *domain.User)) {
	if _, err := a.repo.Users.Update(a.session.Username(), fn); err != nil {
		a.logger.Error().Err(err).Str("username", a.session.Username()).Msg("cli: saving users failed")
		a.printf("Warning: changes could not be saved.\n")
	}
}

func (a *App) printMovies(movies []domain.Movie) {
	for _, m := range movies {
		a.printf("%s\n", m.String())
	}
}
