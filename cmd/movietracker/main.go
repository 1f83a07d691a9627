package main

import (
	"log"
	"os"

	"github.com/Clark-Hu/movie-tracker/internal/auth"
	"github.com/Clark-Hu/movie-tracker/internal/cli"
	"github.com/Clark-Hu/movie-tracker/internal/config"
	"github.com/Clark-Hu/movie-tracker/internal/logging"
	"github.com/Clark-Hu/movie-tracker/internal/recommend"
	"github.com/Clark-Hu/movie-tracker/internal/repository"
	"github.com/Clark-Hu/movie-tracker/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr}).
		With().Str("app", "movietracker").Logger()

	verifier, err := auth.VerifierFor(cfg.CredentialMode)
	if err != nil {
		logger.Fatal().Err(err).Msg("init credential verifier")
	}

	st := store.New(cfg.MoviesFile, cfg.UsersFile, store.Options{
		AtomicSave: cfg.AtomicSave,
		Logger:     logger,
	})
	// missing or unreadable files are not fatal; the loads below fall back to empty data
	if err := st.HealthCheck(); err != nil {
		logger.Warn().Err(err).
			Str("movies_file", st.MoviesPath()).
			Str("users_file", st.UsersPath()).
			Msg("store health check failed")
	}
	repo := repository.New(st)

	authSvc := auth.NewService(repo.Users, auth.Options{
		Verifier:          verifier,
		MinPasswordLength: cfg.MinPasswordLength,
		Logger:            logger,
	})
	engine := recommend.New(repo.Movies.Catalog())

	app := cli.New(os.Stdin, os.Stdout, repo, authSvc, engine, cli.Options{
		DefaultTopN: cfg.DefaultTopN,
		Logger:      logger,
	})
	if err := app.Run(); err != nil {
		logger.Error().Err(err).Msg("menu loop stopped")
		os.Exit(1)
	}
}
