package main

import (
	"context"
	"flag"
	"store-locator/internal/adapters/repositories"
	"store-locator/internal/config"
	"store-locator/internal/platform/db"
	"store-locator/internal/platform/obs"
	"time"

	"github.com/joho/godotenv"
)

// dbtool initializes the store schema and loads the seed file into the
// Postgres or Elasticsearch backend.
func main() {
	if err := godotenv.Load(); err != nil {
		obs.Logger().Info("No .env file found (using environment variables)")
	}

	backend := flag.String("backend", "", "target backend: postgres or elastic (default STORE_BACKEND or postgres)")
	seedPath := flag.String("seed", "", "path to the JSON seed file (default SEED_PATH)")
	flag.Parse()

	log := obs.Logger()
	defer obs.Sync()

	cfg, err := config.LoadDBTool(*backend, *seedPath)
	if err != nil {
		log.Fatalw("invalid configuration", "err", err)
	}
	log.Infow("starting dbtool", "config", cfg.String())

	switch cfg.StoreBackend {
	case "postgres":
		seedPostgres(cfg)
	case "elastic":
		seedElastic(cfg)
	}
}

func seedPostgres(cfg *config.DBTool) {
	log := obs.Logger()

	conn, err := db.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("open postgres", "err", err)
	}
	defer conn.Close()

	log.Info("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		log.Fatalw("schema initialization failed", "err", err)
	}
	log.Info("Schema ready.")

	log.Info("Seeding database...")
	n, err := repositories.SeedFromJSON(conn, repositories.Postgres, cfg.SeedPath)
	if err != nil {
		log.Fatalw("seeding failed", "err", err)
	}
	log.Infow("Seeding complete.", "count", n)
}

func seedElastic(cfg *config.DBTool) {
	log := obs.Logger()

	repo, err := repositories.NewElasticStoreRepository(cfg.ElasticURL, cfg.ElasticIndex, nil)
	if err != nil {
		log.Fatalw("connect elasticsearch", "err", err)
	}
	defer repo.Client.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Infow("Ensuring index...", "index", cfg.ElasticIndex)
	if err := repo.EnsureIndex(ctx); err != nil {
		log.Fatalw("index setup failed", "err", err)
	}

	stores, err := repositories.LoadSeed(cfg.SeedPath)
	if err != nil {
		log.Fatalw("load seed failed", "err", err)
	}

	log.Info("Indexing stores...")
	if err := repo.IndexStores(ctx, stores); err != nil {
		log.Fatalw("indexing failed", "err", err)
	}
	log.Infow("Indexing complete.", "count", len(stores))
}
