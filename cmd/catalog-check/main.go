package main

import (
	"flag"
	"log"
	"os"

	"github.com/goccy/go-json"

	"github.com/Clark-Hu/movie-tracker/internal/config"
	"github.com/Clark-Hu/movie-tracker/internal/domain"
	"github.com/Clark-Hu/movie-tracker/internal/logging"
	"github.com/Clark-Hu/movie-tracker/internal/recommend"
	"github.com/Clark-Hu/movie-tracker/internal/store"
)

type fileReport struct {
	store.LoadReport
	Error string `json:"error,omitempty"`
}

type movieEntry struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Genre  *string `json:"genre"`
	Year   int     `json:"year"`
	Rating float64 `json:"rating"`
}

type output struct {
	Health          string        `json:"health"`
	Movies          fileReport    `json:"movies"`
	Users           fileReport    `json:"users"`
	User            string        `json:"user,omitempty"`
	Recommendations *[]movieEntry `json:"recommendations,omitempty"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	var (
		movies  = flag.String("movies", cfg.MoviesFile, "path to the catalog file")
		users   = flag.String("users", cfg.UsersFile, "path to the user file")
		user    = flag.String("user", "", "print recommendations for this user")
		topN    = flag.Int("n", cfg.DefaultTopN, "number of recommendations")
		verbose = flag.Bool("v", false, "log skipped rows to stderr")
	)
	flag.Parse()

	level := "disabled"
	if *verbose {
		level = "debug"
	}
	logger := logging.Init(logging.Config{Level: level, Format: "console", Output: os.Stderr})

	st := store.New(*movies, *users, store.Options{Logger: logger})
	health := "ok"
	if err := st.HealthCheck(); err != nil {
		health = err.Error()
	}
	catalog, catalogReport := st.LoadCatalog()
	userMap, usersReport := st.LoadUsers()

	out := output{Health: health, Movies: toFileReport(catalogReport), Users: toFileReport(usersReport)}
	if *user != "" {
		u, ok := userMap[*user]
		if !ok {
			log.Fatalf("unknown user %q", *user)
		}
		recs := recommend.New(catalog).RecommendByGenre(u, *topN)
		entries := make([]movieEntry, 0, len(recs))
		for _, m := range recs {
			entries = append(entries, toMovieEntry(m))
		}
		out.User = u.Username
		out.Recommendations = &entries
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("encode report: %v", err)
	}
	if _, err := os.Stdout.Write(append(payload, '\n')); err != nil {
		log.Fatalf("write report: %v", err)
	}
	if !catalogReport.OK() {
		os.Exit(1)
	}
}

func toFileReport(r store.LoadReport) fileReport {
	fr := fileReport{LoadReport: r}
	if r.Err != nil {
		fr.Error = r.Err.Error()
	}
	return fr
}

func toMovieEntry(m domain.Movie) movieEntry {
	return movieEntry{ID: m.ID, Title: m.Title, Genre: m.Genre, Year: m.Year, Rating: m.Rating}
}
