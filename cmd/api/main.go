package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rajnandniparmar/Event-Finder/internal/config"
	"github.com/rajnandniparmar/Event-Finder/internal/httpserver"
	"github.com/rajnandniparmar/Event-Finder/internal/logging"
	"github.com/rajnandniparmar/Event-Finder/internal/metrics"
	"github.com/rajnandniparmar/Event-Finder/internal/search"
	"github.com/rajnandniparmar/Event-Finder/internal/store"
	"github.com/rajnandniparmar/Event-Finder/internal/weather"
)

// main boots the service: config → store → search → HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logging.Init("event-finder", cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("open event store")
	}
	defer closeStore()

	m := metrics.New()
	wc := weather.NewClient(cfg.Weather.URL, cfg.Weather.Code, cfg.Weather.Timeout, m)
	svc := search.NewService(st, wc, m)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpserver.NewRouter(st, svc, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.StoreBackend).Msg("server started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

// openStore builds the configured event store and its cleanup func.
func openStore(ctx context.Context, cfg config.Config) (store.EventStore, func(), error) {
	if cfg.StoreBackend == config.BackendPostgres {
		pg, err := store.NewPostgresStore(cfg.DBURL)
		if err != nil {
			return nil, nil, err
		}
		// Ensure required tables exist before serving.
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, pg.Close, nil
	}

	fs, err := store.NewFileStore(cfg.DataFile)
	if err != nil {
		return nil, nil, err
	}
	return fs, func() {}, nil
}
