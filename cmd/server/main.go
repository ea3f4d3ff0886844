package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/maltedev/aliexpress-product-scraper/internal/api"
	"github.com/maltedev/aliexpress-product-scraper/internal/catalog"
	"github.com/maltedev/aliexpress-product-scraper/internal/config"
	"github.com/maltedev/aliexpress-product-scraper/internal/downloader"
	"github.com/maltedev/aliexpress-product-scraper/internal/extractor"
	"github.com/maltedev/aliexpress-product-scraper/internal/jobs"
	"github.com/maltedev/aliexpress-product-scraper/internal/ratelimit"
	"github.com/maltedev/aliexpress-product-scraper/internal/store"
	"github.com/maltedev/aliexpress-product-scraper/internal/traversal"
	"github.com/maltedev/aliexpress-product-scraper/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
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

	refill := time.Duration(float64(time.Second) / cfg.Scraper.RequestsPerSecond)
	limiter := ratelimit.NewTokenBucket(cfg.Scraper.RequestBurst, refill)

	ext, err := extractor.NewStaticExtractor(extractor.StaticOptions{
		Proxy:     cfg.Scraper.Proxy,
		Timeout:   cfg.Scraper.RequestTimeout,
		UserAgent: cfg.Scraper.UserAgent,
		Limiter:   limiter,
		Cooldown:  cfg.Scraper.DetectionCooldown,
	})
	if err != nil {
		log.Error("failed to build extractor", "error", err)
		os.Exit(1)
	}
	defer ext.Close()

	if err := os.MkdirAll(cfg.Scraper.OutputDir, 0755); err != nil {
		log.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	dl := downloader.New(downloader.Options{
		Timeout:   cfg.Downloader.Timeout,
		UserAgent: cfg.Scraper.UserAgent,
		Limiter:   ratelimit.NewJittered(cfg.Downloader.DelayMin, cfg.Downloader.DelayMax),
	})
	productStore := store.New(cfg.Scraper.OutputDir, dl)

	// Each job is a one-item catalog walk for its search term.
	runJob := func(ctx context.Context, term string, quota int) (int64, error) {
		tree := &catalog.Tree{Categories: []catalog.Category{{
			Name: "API",
			Subcategories: []catalog.Subcategory{{
				// Empty name: the job's term is already a complete search
				// query, nothing should be appended to it.
				Name:  "",
				Items: []catalog.Item{catalog.Item(term)},
			}},
		}}}

		engine := traversal.New(ext, productStore, nil, traversal.Options{
			Quota:       int64(quota),
			Workers:     cfg.Scraper.Workers,
			SearchLimit: cfg.Scraper.SearchLimit,
		})

		summary, err := engine.Run(ctx, tree)
		if summary == nil {
			return 0, err
		}
		return summary.Saved, err
	}

	jobManager := jobs.NewManager(runJob, 2*time.Second)
	go jobManager.Start(ctx)

	handlers := api.NewHandlers(ext, jobManager, log)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handlers.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
