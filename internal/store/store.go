package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-tracker/internal/fieldcodec"
)

// Error kinds recorded in a LoadReport or returned from SaveUsers.
var (
	ErrMissingFile   = errors.New("store: file not found")
	ErrMissingColumn = errors.New("store: missing required column")
	ErrRowParse      = errors.New("store: row parse failed")
	ErrIO            = errors.New("store: i/o failure")
)

// Options controls file handling.
type Options struct {
	// AtomicSave writes the user file to a temporary sibling and renames it
	// over the target. When false the target is truncated and rewritten in place.
	AtomicSave bool
	Logger     zerolog.Logger
}

// Store reads the catalog file and reads/writes the user file. It keeps no
// state between calls besides its configuration.
type Store struct {
	moviesPath string
	usersPath  string
	logger     zerolog.Logger
	opts       Options
	open       func(path string) (io.ReadCloser, error)
}

// New builds a Store for the given file paths.
func New(moviesPath, usersPath string, opts Options) *Store {
	logger := opts.Logger.With().Str("component", "store").Logger()
	logger.Debug().
		Str("movies_file", moviesPath).
		Str("users_file", usersPath).
		Bool("atomic_save", opts.AtomicSave).
		Msg("store: initialized")
	return &Store{moviesPath: moviesPath, usersPath: usersPath, logger: logger, opts: opts, open: openFile}
}

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (s *Store) newTable(path string) table {
	return table{path: path, logger: s.logger, open: s.open}
}

// MoviesPath returns the catalog file location.
func (s *Store) MoviesPath() string { return s.moviesPath }

// UsersPath returns the user file location.
func (s *Store) UsersPath() string { return s.usersPath }

// HealthCheck verifies both backing files can be opened for reading. A missing
// users file is tolerated since the first save creates it.
func (s *Store) HealthCheck() error {
	if err := s.readable(s.moviesPath); err != nil {
		return fmt.Errorf("movies file: %w", err)
	}
	if err := s.readable(s.usersPath); err != nil && !errors.Is(err, ErrMissingFile) {
		return fmt.Errorf("users file: %w", err)
	}
	return nil
}

func (s *Store) readable(path string) error {
	f, err := s.open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return f.Close()
}

// LoadReport summarizes one load. Err holds the condition that stopped the
// load early, if any; skipped rows are counted but do not set Err.
type LoadReport struct {
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
	Loaded  int    `json:"loaded"`
	Skipped int    `json:"skipped"`
	Err     error  `json:"-"`
}

// OK reports whether the file was read to the end with a usable header.
func (r LoadReport) OK() bool {
	return r.Err == nil
}

// table walks a delimited file. The header callback may reject the file;
// row receives every non-blank data line and decides for itself what to skip.
type table struct {
	path   string
	logger zerolog.Logger
	open   func(path string) (io.ReadCloser, error)
}

func (t table) walk(header func([]string) error, row func(lineNo int, line string)) error {
	f, err := t.open(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			t.logger.Warn().Str("path", t.path).Msg("store: file not found")
			return ErrMissingFile
		}
		t.logger.Error().Err(err).Str("path", t.path).Msg("store: open failed")
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()
	return t.scan(f, header, row)
}

// scan reads lines from r until EOF. On a read error the lines already handed
// to row stay delivered and ErrIO is returned.
func (t table) scan(r io.Reader, header func([]string) error, row func(lineNo int, line string)) error {
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			t.logger.Error().Err(readErr).Str("path", t.path).Int("line", lineNo+1).Msg("store: read failed")
			return fmt.Errorf("%w: %v", ErrIO, readErr)
		}
		if line != "" {
			lineNo++
			line = strings.TrimRight(line, "\r\n")
			if lineNo == 1 {
				if err := header(splitHeader(line)); err != nil {
					return err
				}
			} else if strings.TrimSpace(line) != "" {
				row(lineNo, line)
			}
		}
		if readErr != nil {
			break
		}
	}
	return nil
}

func splitHeader(line string) []string {
	return fieldcodec.Split(strings.TrimPrefix(line, "\ufeff"))
}
