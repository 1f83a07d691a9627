// Package cli runs the interactive menu loop over a line-oriented reader and
// writer.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-tracker/internal/auth"
	"github.com/Clark-Hu/movie-tracker/internal/recommend"
	"github.com/Clark-Hu/movie-tracker/internal/repository"
)

// errExit ends the loop on an explicit exit or end of input.
var errExit = errors.New("cli: exit")

// Options configures the menu loop.
type Options struct {
	DefaultTopN int
	Logger      zerolog.Logger
}

// App wires the menus to the repositories, auth service and engine.
type App struct {
	in      *bufio.Reader
	out     io.Writer
	repo    *repository.Repository
	auth    *auth.Service
	engine  *recommend.Engine
	topN    int
	logger  zerolog.Logger
	session *auth.Session
}

// New constructs the menu loop.
func New(in io.Reader, out io.Writer, repo *repository.Repository, authSvc *auth.Service, engine *recommend.Engine, opts Options) *App {
	if opts.DefaultTopN <= 0 {
		opts.DefaultTopN = 5
	}
	return &App{
		in:     bufio.NewReader(in),
		out:    out,
		repo:   repo,
		auth:   authSvc,
		engine: engine,
		topN:   opts.DefaultTopN,
		logger: opts.Logger.With().Str("component", "cli").Logger(),
	}
}

// Run shows the menus until the user exits or input ends.
func (a *App) Run() error {
	a.printf("Loaded movies: %d, users: %d\n", a.repo.Movies.Count(), a.repo.Users.Count())
	for {
		var err error
		if a.session == nil {
			err = a.loggedOutMenu()
		} else {
			err = a.loggedInMenu()
		}
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) loggedOutMenu() error {
	a.printf("\n=== Movie Tracker ===\n")
	a.printf("1. Login\n")
	a.printf("2. Register\n")
	a.printf("3. Exit\n")
	choice, err := a.prompt("Choose: ")
	if err != nil {
		return err
	}
	switch strings.TrimSpace(choice) {
	case "1":
		return a.login()
	case "2":
		return a.register()
	case "3":
		a.printf("Bye!\n")
		return errExit
	default:
		a.printf("Invalid choice\n")
		return nil
	}
}

func (a *App) loggedInMenu() error {
	a.printf("\n=== Menu (logged in as %s) ===\n", a.session.Username())
	a.printf("1. Browse movies\n")
	a.printf("2. Add movie to watchlist\n")
	a.printf("3. Remove movie from watchlist\n")
	a.printf("4. View watchlist\n")
	a.printf("5. Mark movie as watched\n")
	a.printf("6. View history\n")
	a.printf("7. Get recommendations\n")
	a.printf("8. Change password\n")
	a.printf("9. Logout\n")
	choice, err := a.prompt("Choose: ")
	if err != nil {
		return err
	}
	switch strings.TrimSpace(choice) {
	case "1":
		a.browseMovies()
		return nil
	case "2":
		return a.addToWatchlist()
	case "3":
		return a.removeFromWatchlist()
	case "4":
		a.viewWatchlist()
		return nil
	case "5":
		return a.markWatched()
	case "6":
		a.viewHistory()
		return nil
	case "7":
		return a.recommend()
	case "8":
		return a.changePassword()
	case "9":
		a.logout()
		return nil
	default:
		a.printf("Invalid choice\n")
		return nil
	}
}

// prompt writes label and reads one line without its line ending. End of
// input is reported as errExit.
func (a *App) prompt(label string) (string, error) {
	a.printf("%s", label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			a.printf("\n")
			return "", errExit
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *App) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(a.out, format, args...); err != nil {
		a.logger.Debug().Err(err).Msg("cli: write failed")
	}
}
