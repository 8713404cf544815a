package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	catalogpostgres "github.com/tengeql/tengeql/internal/catalog/postgres"
	"github.com/tengeql/tengeql/internal/config"
	"github.com/tengeql/tengeql/internal/loader"
	"github.com/tengeql/tengeql/internal/observability"
	s3store "github.com/tengeql/tengeql/internal/storage/s3"
)

func main() {
	rows := flag.Int64("rows", 0, "total rows to generate; 0 uses TENGEQL_LOADER_ROWS")
	seed := flag.Int64("seed", 0, "generator seed; 0 uses TENGEQL_LOADER_SEED")
	flag.Parse()

	cfg, err := config.LoadFromEnv("tengeql-loader")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	catalogDB, err := catalogpostgres.Open(ctx, catalogpostgres.DBConfig{
		DSN:             cfg.Catalog.DSN,
		MaxOpenConns:    cfg.Catalog.MaxOpenConns,
		MaxIdleConns:    cfg.Catalog.MaxIdleConns,
		ConnMaxIdleTime: cfg.Catalog.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Catalog.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to open catalog db", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = catalogDB.Close() }()

	objectStore, err := s3store.New(ctx, s3store.Config{
		Endpoint:         cfg.ObjectStore.Endpoint,
		Region:           cfg.ObjectStore.Region,
		Bucket:           cfg.ObjectStore.Bucket,
		AccessKeyID:      cfg.ObjectStore.AccessKeyID,
		SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
		UseSSL:           cfg.ObjectStore.UseSSL,
		AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
	})
	if err != nil {
		logger.Error("failed to initialize object store", slog.Any("error", err))
		os.Exit(1)
	}

	opts := loader.Options{
		Rows:     int64(cfg.Loader.Rows),
		FileRows: int64(cfg.Loader.FileRows),
		Seed:     cfg.Loader.Seed,
		Prefix:   cfg.Dataset.Prefix,
		LoadedBy: cfg.Loader.CreatedBy,
		Replace:  cfg.Loader.Replace,
	}
	if *rows > 0 {
		opts.Rows = *rows
	}
	if *seed > 0 {
		opts.Seed = *seed
	}

	l := loader.New(logger, objectStore, catalogpostgres.NewRepository(catalogDB))
	result, err := l.Run(ctx, opts)
	if err != nil {
		logger.Error("dataset load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("dataset load complete",
		slog.Int64("rows", result.TotalRows),
		slog.Int("files", len(result.Files)),
	)
}
