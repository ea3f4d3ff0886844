package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/maltedev/aliexpress-product-scraper/internal/browser"
	"github.com/maltedev/aliexpress-product-scraper/internal/catalog"
	"github.com/maltedev/aliexpress-product-scraper/internal/config"
	"github.com/maltedev/aliexpress-product-scraper/internal/database"
	"github.com/maltedev/aliexpress-product-scraper/internal/downloader"
	"github.com/maltedev/aliexpress-product-scraper/internal/extractor"
	"github.com/maltedev/aliexpress-product-scraper/internal/models"
	"github.com/maltedev/aliexpress-product-scraper/internal/ratelimit"
	"github.com/maltedev/aliexpress-product-scraper/internal/storage"
	"github.com/maltedev/aliexpress-product-scraper/internal/store"
	"github.com/maltedev/aliexpress-product-scraper/internal/traversal"
	"github.com/maltedev/aliexpress-product-scraper/pkg/logger"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		count       = flag.Int("count", cfg.Scraper.Quota, "Target number of products to save")
		output      = flag.String("output", cfg.Scraper.OutputDir, "Output directory")
		proxy       = flag.String("proxy", cfg.Scraper.Proxy, "Proxy URL (e.g. http://host:port)")
		dynamic     = flag.Bool("dynamic", false, "Use the browser-automation backend")
		workers     = flag.Int("workers", cfg.Scraper.Workers, "Parallel extraction workers per item")
		catalogPath = flag.String("catalog", "", "Catalog tree YAML (default: built-in tree)")
		debugURL    = flag.String("debug", "", "Extract a single product URL and print it, then exit")
	)
	flag.Parse()

	cfg.Scraper.Quota = *count
	cfg.Scraper.OutputDir = *output
	cfg.Scraper.Proxy = *proxy
	cfg.Scraper.Workers = *workers
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("received shutdown signal")
		cancel()
	}()

	ext, err := buildExtractor(cfg, *dynamic)
	if err != nil {
		log.Error("failed to build extractor", "error", err)
		os.Exit(1)
	}
	defer ext.Close()

	if *debugURL != "" {
		runDebug(ctx, ext, *debugURL)
		return
	}

	tree, err := loadTree(*catalogPath)
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Scraper.OutputDir, 0755); err != nil {
		log.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	journalPath := cfg.Scraper.JournalPath
	if journalPath == "" {
		journalPath = filepath.Join(cfg.Scraper.OutputDir, "journal.json")
	}
	journal, err := storage.NewJournal(journalPath)
	if err != nil {
		log.Error("failed to open journal", "error", err)
		os.Exit(1)
	}

	dl := downloader.New(downloader.Options{
		Timeout:   cfg.Downloader.Timeout,
		UserAgent: cfg.Scraper.UserAgent,
		Limiter:   ratelimit.NewJittered(cfg.Downloader.DelayMin, cfg.Downloader.DelayMax),
	})
	productStore := store.New(cfg.Scraper.OutputDir, dl)

	saver, cleanup, err := buildSaver(ctx, cfg, productStore, log)
	if err != nil {
		log.Error("failed to set up persistence", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	engine := traversal.New(ext, saver, journal, traversal.Options{
		Quota:       int64(cfg.Scraper.Quota),
		Workers:     cfg.Scraper.Workers,
		SearchLimit: cfg.Scraper.SearchLimit,
	})

	summary, err := engine.Run(ctx, tree)
	if summary != nil {
		log.Info("run summary",
			"saved", summary.Saved,
			"failed", summary.Failed,
			"skipped", summary.Skipped,
			"items", summary.Items,
			"duration", summary.Duration)
	}
	if err != nil && ctx.Err() == nil {
		log.Error("traversal failed", "error", err)
		os.Exit(1)
	}
}

func buildExtractor(cfg *config.Config, dynamic bool) (extractor.Extractor, error) {
	refill := time.Duration(float64(time.Second) / cfg.Scraper.RequestsPerSecond)
	limiter := ratelimit.NewTokenBucket(cfg.Scraper.RequestBurst, refill)

	if !dynamic {
		return extractor.NewStaticExtractor(extractor.StaticOptions{
			Proxy:     cfg.Scraper.Proxy,
			Timeout:   cfg.Scraper.RequestTimeout,
			UserAgent: cfg.Scraper.UserAgent,
			Limiter:   limiter,
			Cooldown:  cfg.Scraper.DetectionCooldown,
		})
	}

	opts := browser.DefaultOptions()
	opts.Headless = cfg.Browser.Headless
	opts.Timeout = cfg.Browser.Timeout
	opts.ViewportWidth = cfg.Browser.ViewportWidth
	opts.ViewportHeight = cfg.Browser.ViewportHeight
	opts.ProxyServer = cfg.Scraper.Proxy
	opts.Debug = cfg.Browser.Debug

	session, err := browser.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return extractor.NewDynamicExtractor(session, extractor.DynamicOptions{
		Limiter:  limiter,
		Cooldown: cfg.Scraper.DetectionCooldown,
	}), nil
}

func loadTree(path string) (*catalog.Tree, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

func runDebug(ctx context.Context, ext extractor.Extractor, url string) {
	product := ext.ExtractDetail(ctx, url)
	data, err := json.MarshalIndent(product, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal product: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// buildSaver wires the optional Postgres index and Redis relay around the
// file store when DB_HOST is configured.
func buildSaver(ctx context.Context, cfg *config.Config, productStore *store.ProductStore, log *slog.Logger) (traversal.Saver, func(), error) {
	if !cfg.DatabaseEnabled() {
		return productStore, func() {}, nil
	}

	db, err := database.New(ctx, database.Config{DSN: cfg.Database.DSN()})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	relay := database.NewRelay(db, redisClient, log, database.RelayConfig{})
	relayCtx, stopRelay := context.WithCancel(ctx)
	go relay.Start(relayCtx)

	cleanup := func() {
		stopRelay()
		redisClient.Close()
		db.Close()
	}

	return &indexingSaver{
		store: productStore,
		repo:  database.NewProductRepository(db),
		log:   log.With("component", "product_index"),
	}, cleanup, nil
}

// indexingSaver persists to disk first, then mirrors the record into the
// product index. Index failures are logged, never fatal.
type indexingSaver struct {
	store *store.ProductStore
	repo  *database.ProductRepository
	log   *slog.Logger
}

func (s *indexingSaver) Save(ctx context.Context, product *models.RawProduct) (string, error) {
	stored, location, err := s.store.SaveRecord(ctx, product)
	if err != nil {
		return "", err
	}

	if err := s.repo.IndexSaved(ctx, stored, location); err != nil {
		s.log.Warn("failed to index product", "id", stored.ProductID, "error", err)
	}

	return location, nil
}
