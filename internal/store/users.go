package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Clark-Hu/movie-tracker/internal/domain"
	"github.com/Clark-Hu/movie-tracker/internal/fieldcodec"
)

const usersHeader = "username,password,watchlist,history"

// LoadUsers reads the user file with the same soft-fail policy as LoadCatalog.
func (s *Store) LoadUsers() (map[string]*domain.User, LoadReport) {
	users := make(map[string]*domain.User)
	report := LoadReport{Path: s.usersPath}
	logger := s.logger.With().Str("path", s.usersPath).Logger()

	var idx map[string]int
	t := s.newTable(s.usersPath)
	err := t.walk(
		func(header []string) error {
			idx = fieldcodec.HeaderIndex(header)
			for _, col := range []string{"username", "password"} {
				if _, ok := idx[col]; !ok {
					logger.Error().Str("column", col).Msg("store: users file missing required column")
					return fmt.Errorf("%w: %s", ErrMissingColumn, col)
				}
			}
			return nil
		},
		func(lineNo int, line string) {
			report.Rows++
			fields := fieldcodec.Split(line)
			username, _ := fieldcodec.Column(fields, idx, "username")
			if username == "" {
				report.Skipped++
				logger.Warn().Int("line", lineNo).Msg("store: skipping user row with empty username")
				return
			}
			password, _ := fieldcodec.Column(fields, idx, "password")
			u := domain.NewUser(username, password)
			if raw, ok := fieldcodec.Column(fields, idx, "watchlist"); ok {
				u.Watchlist = dedupe(fieldcodec.SplitIDs(raw))
			}
			if raw, ok := fieldcodec.Column(fields, idx, "history"); ok {
				u.History = dedupe(fieldcodec.SplitIDs(raw))
			}
			users[username] = u
			report.Loaded++
		},
	)
	if err != nil {
		report.Err = err
		if errors.Is(err, ErrMissingColumn) || errors.Is(err, ErrMissingFile) {
			return make(map[string]*domain.User), report
		}
	}

	logger.Info().Int("users", len(users)).Int("skipped", report.Skipped).Msg("store: users loaded")
	return users, report
}

// SaveUsers rewrites the whole user file, one row per user ordered by
// username. Without AtomicSave a failure part way through leaves the file
// truncated; the error is logged and returned, never retried.
func (s *Store) SaveUsers(users map[string]*domain.User) error {
	logger := s.logger.With().Str("path", s.usersPath).Logger()

	var err error
	if s.opts.AtomicSave {
		err = s.saveAtomic(users)
	} else {
		err = s.saveInPlace(users)
	}
	if err != nil {
		logger.Error().Err(err).Msg("store: save users failed")
		return err
	}
	logger.Debug().Int("users", len(users)).Msg("store: users saved")
	return nil
}

func (s *Store) saveInPlace(users map[string]*domain.User) error {
	f, err := os.OpenFile(s.usersPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := writeUsers(f, users); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func (s *Store) saveAtomic(users map[string]*domain.User) error {
	dir := filepath.Dir(s.usersPath)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.usersPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := writeUsers(tmp, users); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := os.Rename(tmpPath, s.usersPath); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func writeUsers(f *os.File, users map[string]*domain.User) error {
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(usersHeader + "\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	for _, name := range names {
		if _, err := w.WriteString(formatUserRow(users[name]) + "\n"); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func formatUserRow(u *domain.User) string {
	return fieldcodec.QuoteField(u.Username) + "," +
		fieldcodec.QuoteField(u.Password) + "," +
		fieldcodec.QuoteIDs(u.Watchlist) + "," +
		fieldcodec.QuoteIDs(u.History)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
