package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rotten-potatoes/reviews/internal/config"
	"github.com/rotten-potatoes/reviews/internal/eventlog"
	httpserver "github.com/rotten-potatoes/reviews/internal/http"
	"github.com/rotten-potatoes/reviews/internal/model"
	"github.com/rotten-potatoes/reviews/internal/repository"
	"github.com/rotten-potatoes/reviews/internal/review"
	"github.com/rotten-potatoes/reviews/internal/store"
)

//go:embed seed.json
var seedData []byte

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("config error")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().
		Timestamp().
		Str("service", "reviews-api").
		Logger()

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.New(dbCtx, cfg.DBURL, store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer st.Close()

	repo := repository.New(st)
	seed(ctx, repo, logger)

	remote, err := eventlog.NewRemoteSink(cfg.SearchIndexURL, cfg.SearchIndexName,
		time.Duration(cfg.SearchTimeoutSecs)*time.Second)
	if err != nil {
		logger.Fatal().Err(err).Msg("init remote event sink")
	}
	events := eventlog.New("reviews-api", eventlog.NewConsoleSink(os.Stdout), remote)
	defer events.Close()

	// The resolver runs exactly once, before any request is served; its
	// result is immutable afterwards.
	classifier, version, err := model.Resolve(cfg.ModelRoot, model.VersionFromAncestor(cfg.ModelVersionDepth))
	if err != nil {
		events.Emit(zerolog.ErrorLevel, "model not loaded", map[string]any{
			"model_root": cfg.ModelRoot,
			"reason":     err.Error(),
		})
	} else {
		events.Emit(zerolog.InfoLevel, "model loaded", map[string]any{
			"model_root":    cfg.ModelRoot,
			"model_version": version,
		})
	}

	var classifierPort review.Classifier
	if classifier != nil {
		classifierPort = classifier
	}
	svc := review.NewService(repo, classifierPort, version, events)
	server := httpserver.New(cfg, st, svc, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}

// seed applies the embedded bootstrap dataset. Failures are logged and the
// process continues with whatever the store already holds.
func seed(ctx context.Context, repo *repository.Repository, logger zerolog.Logger) {
	var movies []repository.MovieSeed
	if err := json.Unmarshal(seedData, &movies); err != nil {
		logger.Error().Err(err).Msg("seed dataset malformed, store left as-is")
		return
	}
	if err := repo.SeedIfEmpty(ctx, movies); err != nil {
		logger.Error().Err(err).Msg("seeding failed, store left as-is")
		return
	}
	logger.Info().Int("movies", len(movies)).Msg("seed dataset applied")
}
