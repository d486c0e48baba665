// Package main implements the HTTP API server for the student guide.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	apihttp "github.com/guiafaen/guia/internal/http"
	"github.com/guiafaen/guia/internal/libs/config"
	"github.com/guiafaen/guia/internal/libs/jobs"
	"github.com/guiafaen/guia/internal/libs/obs"
	"github.com/guiafaen/guia/internal/scope/auth"
	"github.com/guiafaen/guia/internal/scope/db"
	"github.com/guiafaen/guia/internal/scope/media"
	"github.com/guiafaen/guia/internal/scope/search"
)

const (
	refreshJob      = "corpus-refresh"
	shutdownTimeout = 15 * time.Second
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("api")

	catalog, err := search.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load catalog")
	}
	logger.Info().
		Int("entries", len(catalog.Entries)).
		Int("strings", catalog.Strings()).
		Msg("catalog loaded")

	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	database, err := db.New(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	content := db.NewContentRepo(database.Pool(), db.NewTables(cfg.EditableTables...))
	users := db.NewUserRepo(database.Pool())

	tables := make([]search.Table, len(cfg.ContentTables))
	for i, t := range cfg.ContentTables {
		tables[i] = search.Table{Name: t.Name, Screen: t.Screen}
	}
	fetcher := search.NewFetcher(content, tables, obs.Logger("fetch"),
		search.WithFetchTimeout(cfg.FetchTimeout),
		search.WithConcurrency(cfg.FetchConcurrency),
	)
	index := search.NewIndex(catalog, fetcher, obs.Logger("search"))

	// Refresh the corpus on schedule; the first run happens in the background
	// so the catalog is searchable while the tables load.
	scheduler := jobs.NewScheduler(obs.Logger("jobs"), 2*time.Minute)
	if err := scheduler.Add(refreshJob, cfg.RefreshSchedule, refresh(index)); err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule corpus refresh")
	}
	go func() { _ = scheduler.Run(refreshJob) }()
	scheduler.Start()

	verifier := newVerifier(cfg, users, logger)

	var opts []apihttp.Option
	if cfg.Storage.Enabled() {
		uploader, err := newUploader(cfg.Storage)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure image storage")
		}
		opts = append(opts, apihttp.WithImages(uploader))
		logger.Info().Str("bucket", cfg.Storage.Bucket).Msg("image uploads enabled")
	} else {
		logger.Info().Msg("STORAGE_ENDPOINT not set, image uploads disabled")
	}

	// Create HTTP handler
	handler := apihttp.NewHandler(index, content, tables, logger, opts...)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           apihttp.NewRouter(handler, verifier, obs.Logger("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-quit
	logger.Info().Msg("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("scheduler did not stop in time")
	}
	handler.Wait()

	logger.Info().Msg("server stopped")
}

// refresh rebuilds the corpus and fails when any table was left out.
func refresh(index *search.Index) jobs.Func {
	return func(ctx context.Context) error {
		stats := index.Load(ctx)
		if len(stats.FailedTables) > 0 {
			return fmt.Errorf("tables left out: %s", strings.Join(stats.FailedTables, ", "))
		}
		return nil
	}
}

func newVerifier(cfg *config.Config, users db.RoleStore, logger zerolog.Logger) *auth.Verifier {
	if cfg.JWTSecret == "" {
		logger.Warn().Msg("JWT_SECRET not set, editing routes disabled")
		return nil
	}
	v, err := auth.NewVerifier(cfg.JWTSecret, users, obs.Logger("auth"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure auth")
	}
	return v
}

func newUploader(s config.Storage) (*media.Uploader, error) {
	mc := media.Config{
		Endpoint:  s.Endpoint,
		Region:    s.Region,
		Bucket:    s.Bucket,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
		PublicURL: s.PublicURL,
		MaxBytes:  s.MaxBytes,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := media.NewS3Client(ctx, mc)
	if err != nil {
		return nil, err
	}
	return media.NewUploader(client, mc, obs.Logger("media")), nil
}
