package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-tracker/internal/auth"
	"github.com/Clark-Hu/movie-tracker/internal/recommend"
	"github.com/Clark-Hu/movie-tracker/internal/repository"
	"github.com/Clark-Hu/movie-tracker/internal/store"
)

const testMovies = "id,title,genre,year,rating\n" +
	"M001,Heat,Action,1995,8.0\n" +
	"M002,Ronin,Action,1998,9.0\n" +
	"M003,Airplane,Comedy,1980,7.0\n"

type harness struct {
	store *store.Store
	out   *bytes.Buffer
}

func newHarness(t *testing.T, users string) *harness {
	t.Helper()
	dir := t.TempDir()
	moviesPath := filepath.Join(dir, "movies.csv")
	usersPath := filepath.Join(dir, "users.csv")
	if err := os.WriteFile(moviesPath, []byte(testMovies), 0o644); err != nil {
		t.Fatalf("write movies: %v", err)
	}
	if users != "" {
		if err := os.WriteFile(usersPath, []byte(users), 0o644); err != nil {
			t.Fatalf("write users: %v", err)
		}
	}
	return &harness{
		store: store.New(moviesPath, usersPath, store.Options{Logger: zerolog.New(io.Discard)}),
		out:   &bytes.Buffer{},
	}
}

func (h *harness) run(t *testing.T, input ...string) string {
	t.Helper()
	h.out.Reset()
	repo := repository.New(h.store)
	svc := auth.NewService(repo.Users, auth.Options{Logger: zerolog.New(io.Discard)})
	app := New(strings.NewReader(strings.Join(input, "\n")+"\n"), h.out, repo, svc,
		recommend.New(repo.Movies.Catalog()), Options{DefaultTopN: 5, Logger: zerolog.New(io.Discard)})
	if err := app.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return h.out.String()
}

func (h *harness) usersFile(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile(h.store.UsersPath())
	if err != nil {
		t.Fatalf("read users: %v", err)
	}
	return string(raw)
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRegisterLoginAndTrack(t *testing.T) {
	h := newHarness(t, "")

	out := h.run(t,
		"2", "bob", "abc", "abc", // too short
		"2", "bob", "abcd", "abce", // mismatch
		"2", "bob", "abcd", "abcd",
		"2", "bob", // taken
		"1", "bob", "wrong",
		"1", "bob", "abcd",
		"2", "M404",
		"2", "M003",
		"2", "M001",
		"5", "M001",
		"5", "M001",
		"4",
		"6",
		"7", "x",
		"9",
		"3",
	)

	assertContains(t, out,
		"Loaded movies: 3, users: 0",
		"Password too short.",
		"Passwords do not match.",
		"Register success. You can login now.",
		"Username already exists.",
		"Login failed.",
		"Logged in as bob",
		"Movie not found.",
		"Added.",
		"Marked as watched.",
		"--- Watchlist ---\nM003 | Airplane (1980) - Comedy - 7.0\n",
		"--- History ---\nM001 | Heat (1995) - Action - 8.0\n",
		"M002 | Ronin (1998) - Action - 9.0",
		"Logging out bob",
		"Bye!",
	)

	if got, want := h.usersFile(t), "username,password,watchlist,history\nbob,abcd,M003,M001\n"; got != want {
		t.Fatalf("users file = %q, want %q", got, want)
	}
}

func TestRecommendationsAndRemoval(t *testing.T) {
	h := newHarness(t, "username,password,watchlist,history\nalice,pw12,\"M002;M003\",\n")

	out := h.run(t,
		"1", "alice", "pw12",
		"7", "1",
		"3", "M002",
		"3", "M002",
		"7", "5",
		"1",
	)

	// watchlist fallback: action (M002) and comedy (M003) both count once
	assertContains(t, out,
		"Top N? M001 | Heat (1995) - Action - 8.0\n",
		"Removed if existed.",
		"--- All movies ---\nM001 | Heat",
	)
	// after removing M002 only comedy is left, and its one movie is on the watchlist
	if strings.Count(out, "No recommendations available.") != 1 {
		t.Fatalf("expected one empty recommendation result:\n%s", out)
	}
	if got, want := h.usersFile(t), "username,password,watchlist,history\nalice,pw12,M003,\n"; got != want {
		t.Fatalf("users file = %q, want %q", got, want)
	}
}

func TestChangePasswordFlow(t *testing.T) {
	h := newHarness(t, "username,password,watchlist,history\nalice,pw12,,\n")

	out := h.run(t,
		"1", "alice", "pw12",
		"8", "bad", "x", "x",
		"8", "pw12", "newpw", "newpw",
		"9",
		"1", "alice", "newpw",
		"0",
	)
	assertContains(t, out,
		"Current password incorrect.",
		"Password updated.",
		"Invalid choice",
	)
	if strings.Count(out, "Logged in as alice") != 2 {
		t.Fatalf("expected two logins:\n%s", out)
	}
	if !strings.Contains(h.usersFile(t), "alice,newpw,,") {
		t.Fatalf("password change not persisted: %s", h.usersFile(t))
	}
}

func TestRunStopsAtEndOfInput(t *testing.T) {
	h := newHarness(t, "")
	repo := repository.New(h.store)
	svc := auth.NewService(repo.Users, auth.Options{})
	app := New(strings.NewReader("2\nbob"), h.out, repo, svc, recommend.New(repo.Movies.Catalog()), Options{})
	if err := app.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if _, err := os.Stat(h.store.UsersPath()); !os.IsNotExist(err) {
		t.Fatalf("no user should have been written, stat err = %v", err)
	}
}
