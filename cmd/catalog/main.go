package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/config"
	"github.com/ikkim/catalog-backend/internal/app"
	"github.com/ikkim/catalog-backend/internal/db"
	apperrors "github.com/ikkim/catalog-backend/internal/errors"
	"github.com/ikkim/catalog-backend/internal/scheduler"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"github.com/ikkim/catalog-backend/pkg/redis"
)

const usage = `Usage: catalog <command> [flags]

Commands:
  migrate                          create or update the catalog tables
  reindex [-batch N]               recompute the identifier of every variant
  schedule [-cron SPEC]            reindex on a cron schedule until interrupted
  attributes -product ID           print the effective attributes of a product
  sku -base SKU [-size S] [-color C]
                                   print the next free variant SKU
`

type command func(ctx context.Context, catalog *app.Catalog, cfg *config.Config, args []string) error

var commands = map[string]command{
	"migrate":    migrate,
	"reindex":    reindex,
	"schedule":   schedule,
	"attributes": attributes,
	"sku":        sku,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		EnableColor: cfg.App.LogFormat == "console",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	opts := app.Options{Catalog: cfg.Catalog}
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Continuing without Redis cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
			opts.Cache = redis.NewAttributeCache(redis.GetClient(), cfg.Redis.TTL)
		}
	}

	catalog := app.New(db.GetDB(), opts)
	if err := run(ctx, catalog, cfg, os.Args[2:]); err != nil {
		info := apperrors.ParseError(err, os.Args[1])
		logger.Error(info.Message, err, map[string]interface{}{
			"command": os.Args[1],
			"code":    info.Code,
			"fields":  info.Fields,
		})
		stop()
		os.Exit(1)
	}
}

func migrate(_ context.Context, catalog *app.Catalog, _ *config.Config, _ []string) error {
	return db.MigrateWith(catalog.DB)
}

func reindex(ctx context.Context, catalog *app.Catalog, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("reindex", flag.ContinueOnError)
	batch := fs.Int("batch", cfg.Catalog.ReindexBatchSize, "variants loaded per batch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runLog := logger.WithContext(map[string]interface{}{
		"run_id": uuid.NewString(),
	})
	runLog.Info("Reindexing variant identifiers", map[string]interface{}{
		"batch_size": *batch,
	})

	started := time.Now()
	updated, err := catalog.Variants.RegenerateAllIdentifiers(ctx, *batch)
	if err != nil {
		return err
	}

	runLog.Info("Reindex finished", map[string]interface{}{
		"updated":  updated,
		"duration": time.Since(started).String(),
	})
	return nil
}

func schedule(ctx context.Context, catalog *app.Catalog, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ContinueOnError)
	spec := fs.String("cron", cfg.Catalog.ReindexSchedule, "cron expression for the reindex job")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reindexScheduler := scheduler.NewReindexScheduler(catalog.Variants, *spec, cfg.Catalog.ReindexBatchSize)
	if err := reindexScheduler.Start(ctx); err != nil {
		return apperrors.NewValidationError("cron", err.Error())
	}

	<-ctx.Done()
	reindexScheduler.Stop()
	return nil
}

func attributes(ctx context.Context, catalog *app.Catalog, _ *config.Config, args []string) error {
	fs := flag.NewFlagSet("attributes", flag.ContinueOnError)
	productID := fs.Uint("product", 0, "product id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *productID == 0 {
		return apperrors.NewValidationError("product", "is required")
	}

	attrs, err := catalog.Bindings.ListEffectiveAttributesForProduct(ctx, *productID)
	if err != nil {
		return err
	}
	for _, a := range attrs {
		fmt.Printf("%-24s %-12s category=%d required=%t variant=%t\n",
			a.Attribute.Slug, a.Attribute.Type, a.CategoryID, a.IsRequired, a.Attribute.IsVariant)
	}
	return nil
}

func sku(ctx context.Context, catalog *app.Catalog, _ *config.Config, args []string) error {
	fs := flag.NewFlagSet("sku", flag.ContinueOnError)
	base := fs.String("base", "", "base product SKU")
	size := fs.String("size", "", "variant size")
	color := fs.String("color", "", "variant color")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *base == "" {
		return apperrors.NewValidationError("base", "is required")
	}

	next, err := catalog.Variants.GenerateSkuVariant(ctx, *base, *size, *color)
	if err != nil {
		return err
	}
	fmt.Println(next)
	return nil
}
