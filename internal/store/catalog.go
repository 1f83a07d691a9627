package store

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/Clark-Hu/movie-tracker/internal/domain"
	"github.com/Clark-Hu/movie-tracker/internal/fieldcodec"
)

// LoadCatalog reads the catalog file. It never fails outright: a missing file
// or a header without id/title yields an empty catalog, and bad rows are
// skipped. The report says what happened.
func (s *Store) LoadCatalog() (*domain.Catalog, LoadReport) {
	catalog := domain.NewCatalog()
	report := LoadReport{Path: s.moviesPath}
	logger := s.logger.With().Str("path", s.moviesPath).Logger()

	var idx map[string]int
	t := s.newTable(s.moviesPath)
	err := t.walk(
		func(header []string) error {
			idx = fieldcodec.HeaderIndex(header)
			for _, col := range []string{"id", "title"} {
				if _, ok := idx[col]; !ok {
					logger.Error().Str("column", col).Msg("store: movies file missing required column")
					return fmt.Errorf("%w: %s", ErrMissingColumn, col)
				}
			}
			return nil
		},
		func(lineNo int, line string) {
			report.Rows++
			movie, err := parseMovieRow(fieldcodec.Split(line), idx)
			if err != nil {
				report.Skipped++
				logger.Warn().Err(err).Int("line", lineNo).Str("row", line).Msg("store: skipping movie row")
				return
			}
			catalog.Put(movie)
			report.Loaded++
		},
	)
	if err != nil {
		report.Err = err
		if errors.Is(err, ErrMissingColumn) || errors.Is(err, ErrMissingFile) {
			return domain.NewCatalog(), report
		}
	}

	logger.Info().Int("movies", catalog.Len()).Int("skipped", report.Skipped).Msg("store: catalog loaded")
	return catalog, report
}

func parseMovieRow(fields []string, idx map[string]int) (domain.Movie, error) {
	id, _ := fieldcodec.Column(fields, idx, "id")
	if id == "" {
		return domain.Movie{}, fmt.Errorf("%w: empty id", ErrRowParse)
	}
	title, _ := fieldcodec.Column(fields, idx, "title")
	movie := domain.Movie{ID: id, Title: title}

	if genre, _ := fieldcodec.Column(fields, idx, "genre"); genre != "" {
		movie.Genre = &genre
	}
	if raw, _ := fieldcodec.Column(fields, idx, "year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Movie{}, fmt.Errorf("%w: year %q", ErrRowParse, raw)
		}
		movie.Year = year
	}
	if raw, _ := fieldcodec.Column(fields, idx, "rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
			return domain.Movie{}, fmt.Errorf("%w: rating %q", ErrRowParse, raw)
		}
		movie.Rating = rating
	}
	return movie, nil
}
