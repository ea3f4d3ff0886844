// Package traversal walks the catalog tree and drives search, extraction
// and persistence until the product quota is met.
package traversal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maltedev/aliexpress-product-scraper/internal/catalog"
	"github.com/maltedev/aliexpress-product-scraper/internal/extractor"
	"github.com/maltedev/aliexpress-product-scraper/internal/models"
	"github.com/maltedev/aliexpress-product-scraper/internal/queue"
	"github.com/maltedev/aliexpress-product-scraper/internal/storage"
)

const maxAttemptsPerItem = 3

// Saver persists one product and returns its storage location.
type Saver interface {
	Save(ctx context.Context, product *models.RawProduct) (string, error)
}

// Options tune the traversal run.
type Options struct {
	// Quota is the target number of persisted products. Small overshoot
	// when workers cross the target simultaneously is accepted.
	Quota int64
	// Workers bounds parallel detail extraction per item.
	Workers int
	// SearchLimit caps candidate URLs per item search.
	SearchLimit int
	// WaitUnit scales the retry backoff. Tests shrink it.
	WaitUnit time.Duration
	// Sleep is the backoff sleep. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultOptions() Options {
	return Options{
		Quota:       10,
		Workers:     2,
		SearchLimit: 10,
		WaitUnit:    time.Second,
	}
}

// Summary aggregates the totals of one run.
type Summary struct {
	Saved     int64
	Failed    int64
	Skipped   int64
	Items     int
	StartedAt time.Time
	Duration  time.Duration
}

type Engine struct {
	extractor extractor.Extractor
	saver     Saver
	journal   *storage.Journal // optional
	opts      Options
	logger    *slog.Logger

	saved   atomic.Int64
	failed  atomic.Int64
	skipped atomic.Int64
}

// New builds a traversal engine. journal may be nil, which disables
// cross-run resume.
func New(ext extractor.Extractor, saver Saver, journal *storage.Journal, opts Options) *Engine {
	if opts.Quota <= 0 {
		opts.Quota = DefaultOptions().Quota
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultOptions().Workers
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = DefaultOptions().SearchLimit
	}
	if opts.WaitUnit <= 0 {
		opts.WaitUnit = DefaultOptions().WaitUnit
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepCtx
	}

	return &Engine{
		extractor: ext,
		saver:     saver,
		journal:   journal,
		opts:      opts,
		logger:    slog.Default().With("component", "traversal"),
	}
}

// Run walks the tree in order. The quota is re-checked after every item,
// subcategory and category so the nested loops exit promptly once met.
// Cancellation stops dispatch; the save in flight completes atomically.
func (e *Engine) Run(ctx context.Context, tree *catalog.Tree) (*Summary, error) {
	start := time.Now()
	summary := &Summary{StartedAt: start}

	e.logger.Info("starting traversal",
		"categories", len(tree.Categories),
		"quota", e.opts.Quota,
		"workers", e.opts.Workers)

	var runErr error
categories:
	for _, cat := range tree.Categories {
		for _, sub := range cat.Subcategories {
			for _, item := range sub.Items {
				if err := ctx.Err(); err != nil {
					runErr = err
					break categories
				}

				summary.Items++
				if err := e.processItem(ctx, cat.Name, sub.Name, string(item)); err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
						runErr = err
						break categories
					}
					e.logger.Warn("item abandoned", "item", item, "error", err)
				}

				if e.quotaReached() {
					break categories
				}
			}
			if e.quotaReached() {
				break categories
			}
		}
		if e.quotaReached() {
			break categories
		}
	}

	summary.Saved = e.saved.Load()
	summary.Failed = e.failed.Load()
	summary.Skipped = e.skipped.Load()
	summary.Duration = time.Since(start)

	e.logger.Info("traversal finished",
		"saved", summary.Saved,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"items", summary.Items,
		"duration", summary.Duration)

	return summary, runErr
}

// processItem runs the bounded-retry search loop for one leaf item. An
// attempt succeeds when at least one product was persisted; the loop then
// exits immediately. Empty attempts wait attempt*20 units, erroring
// attempts wait attempt*30 units. After three failed attempts the item is
// abandoned, best effort.
func (e *Engine) processItem(ctx context.Context, category, subcategory, item string) error {
	logger := e.logger.With("category", category, "item", item)

	// Leaf items are generic ("red dress"); the subcategory narrows the
	// search to the intended department.
	term := item
	if subcategory != "" {
		term = item + " " + subcategory
	}

	for attempt := 1; attempt <= maxAttemptsPerItem; attempt++ {
		limit := e.searchLimit()
		if limit == 0 {
			return nil
		}

		results, err := e.extractor.Search(ctx, term, limit)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			logger.Warn("search failed", "attempt", attempt, "error", err)
			if attempt < maxAttemptsPerItem {
				if err := e.opts.Sleep(ctx, time.Duration(attempt)*30*e.opts.WaitUnit); err != nil {
					return err
				}
			}
			continue
		}

		saved, err := e.processResults(ctx, category, subcategory, item, results)
		if err != nil {
			return err
		}
		if saved > 0 {
			return nil
		}

		logger.Info("attempt yielded no products", "attempt", attempt, "candidates", len(results))
		if attempt < maxAttemptsPerItem {
			if err := e.opts.Sleep(ctx, time.Duration(attempt)*20*e.opts.WaitUnit); err != nil {
				return err
			}
		}
	}

	logger.Warn("item abandoned after retries")
	return nil
}

// processResults extracts candidates through the worker pool and persists
// them sequentially in discovery order.
func (e *Engine) processResults(ctx context.Context, category, subcategory, item string, results []models.SearchResult) (int, error) {
	tasks := make([]queue.Task, 0, len(results))
	for _, r := range results {
		if r.ProductURL == "" {
			continue
		}
		if e.journal != nil && e.journal.IsCompleted(r.ProductURL) {
			e.skipped.Add(1)
			continue
		}
		tasks = append(tasks, queue.Task{
			URL:         r.ProductURL,
			Category:    category,
			Subcategory: subcategory,
			ItemType:    item,
			Position:    len(tasks),
		})
	}
	if len(tasks) == 0 {
		return 0, nil
	}

	products := make([]*models.RawProduct, len(tasks))

	q := queue.NewInMemory()
	for _, task := range tasks {
		q.Enqueue(task)
	}
	q.Close()

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < e.opts.Workers; w++ {
		g.Go(func() error {
			for {
				task, ok := q.Dequeue(gctx)
				if !ok {
					return gctx.Err()
				}
				product := e.extractor.ExtractDetail(gctx, task.URL)
				product.Category = task.Category
				product.Subcategory = task.Subcategory
				product.ItemType = task.ItemType
				products[task.Position] = product
			}
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	// Saves happen in discovery order on this goroutine; the counter is
	// still atomic because several items may run concurrently upstream.
	saved := 0
	for i, product := range products {
		if product == nil {
			continue
		}
		if e.quotaReached() {
			break
		}
		if err := ctx.Err(); err != nil {
			return saved, err
		}

		location, err := e.saver.Save(ctx, product)
		if err != nil {
			e.failed.Add(1)
			e.markJournal(tasks[i].URL, product.ProductID, storage.StatusFailed)
			e.logger.Warn("save failed", "url", tasks[i].URL, "error", err)
			continue
		}

		total := e.saved.Add(1)
		saved++
		status := storage.StatusCompleted
		if product.IsErrorProduct() {
			// Persisted for inspection but eligible for retry next run.
			status = storage.StatusFailed
		}
		e.markJournal(tasks[i].URL, product.ProductID, status)
		e.logger.Info("product saved", "id", product.ProductID, "location", location, "total", total)
	}

	return saved, nil
}

func (e *Engine) quotaReached() bool {
	return e.saved.Load() >= e.opts.Quota
}

// searchLimit bounds each search to what the quota still allows.
func (e *Engine) searchLimit() int {
	remaining := e.opts.Quota - e.saved.Load()
	if remaining <= 0 {
		return 0
	}
	if int64(e.opts.SearchLimit) < remaining {
		return e.opts.SearchLimit
	}
	return int(remaining)
}

func (e *Engine) markJournal(url, productID string, status storage.Status) {
	if e.journal == nil {
		return
	}
	if err := e.journal.Mark(url, productID, status); err != nil {
		e.logger.Warn("journal update failed", "url", url, "error", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("wait interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
