package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"store-locator/internal/adapters/repositories"
	"store-locator/internal/api"
	"store-locator/internal/config"
	"store-locator/internal/platform/db"
	"store-locator/internal/platform/obs"
	"store-locator/internal/ports"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It picks the configured store backend and starts the listing API.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadServer()
	if err != nil {
		obs.Logger().Fatalw("invalid configuration", "err", err)
	}

	logger, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		obs.Logger().Fatalw("build logger", "err", err)
	}
	obs.SetLogger(logger)
	defer obs.Sync()

	log := obs.Logger()
	if envErr != nil {
		log.Info("No .env file found (using environment variables)")
	}
	log.Infow("starting store listing api", "config", cfg.String())

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		log.Fatalw("open store repository", "backend", cfg.StoreBackend, "err", err)
	}
	defer closeRepo()

	metrics, err := obs.NewMetrics(nil)
	if err != nil {
		log.Fatalw("register metrics", "err", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(repo, cfg.MaxResults, metrics),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infow("Server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalw("server stopped", "err", err)
	}
}

// openRepository returns the configured StoreRepository and its cleanup.
// The SQLite backend initializes its schema and seeds demo data on startup
// for local runs; Postgres and Elasticsearch are seeded with cmd/dbtool.
func openRepository(cfg *config.Server) (ports.StoreRepository, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		conn, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewSQLStoreRepository(conn, repositories.Postgres), closer(conn), nil

	case "elastic":
		repo, err := repositories.NewElasticStoreRepository(cfg.ElasticURL, cfg.ElasticIndex, nil)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Client.Stop() }, nil

	default:
		conn, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := initAndSeed(conn, cfg.SeedPath); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return repositories.NewSQLStoreRepository(conn, repositories.SQLite), closer(conn), nil
	}
}

func closer(conn *sql.DB) func() {
	return func() { _ = conn.Close() }
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}

	n, err := repositories.SeedFromJSON(conn, repositories.SQLite, seedPath)
	if err != nil {
		return err
	}
	obs.Logger().Infow("seeded stores", "count", n, "path", seedPath)
	return nil
}
