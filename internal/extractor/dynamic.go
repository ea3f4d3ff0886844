package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/maltedev/aliexpress-product-scraper/internal/browser"
	"github.com/maltedev/aliexpress-product-scraper/internal/models"
	"github.com/maltedev/aliexpress-product-scraper/internal/parser"
	"github.com/maltedev/aliexpress-product-scraper/internal/ratelimit"
)

// DynamicExtractor renders pages through the shared browser session before
// parsing. Sees script-rendered galleries and sku blocks the static path
// misses, at the cost of a real browser per process.
type DynamicExtractor struct {
	session  *browser.Session
	parser   parser.Parser
	limiter  ratelimit.Limiter
	logger   *slog.Logger
	cooldown time.Duration
	baseURL  string
}

type DynamicOptions struct {
	Limiter  ratelimit.Limiter
	Cooldown time.Duration

	// SearchBaseURL overrides the production search endpoint (tests).
	SearchBaseURL string
}

func NewDynamicExtractor(session *browser.Session, opts DynamicOptions) *DynamicExtractor {
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.Unlimited{}
	}
	if opts.Cooldown == 0 {
		opts.Cooldown = defaultDetectionCooldown
	}
	if opts.SearchBaseURL == "" {
		opts.SearchBaseURL = searchBaseURL
	}

	return &DynamicExtractor{
		session:  session,
		parser:   parser.NewAliexpressParser(),
		limiter:  opts.Limiter,
		logger:   slog.Default().With("component", "dynamic_extractor"),
		cooldown: opts.Cooldown,
		baseURL:  opts.SearchBaseURL,
	}
}

func (e *DynamicExtractor) Search(ctx context.Context, term string, limit int) ([]models.SearchResult, error) {
	target := e.baseURL + url.QueryEscape(term)
	e.logger.Info("searching catalog", "term", term, "url", target)

	html, err := e.renderPage(ctx, target, fmt.Sprintf("search_%s.png", sanitizeForPath(term)))
	if err != nil {
		return nil, fmt.Errorf("search render failed: %w", err)
	}

	if detected(html) {
		e.logger.Warn("bot detection on search page", "term", term)
		coolDown(ctx, e.cooldown)
		return nil, ErrBotDetected
	}

	results, err := e.parser.ParseSearchResults(html, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	e.logger.Info("search complete", "term", term, "results", len(results))
	return results, nil
}

func (e *DynamicExtractor) ExtractDetail(ctx context.Context, productURL string) *models.RawProduct {
	e.logger.Info("extracting product", "url", productURL)

	html, err := e.renderPage(ctx, productURL, "product_page.png")
	if err != nil {
		e.logger.Warn("product render failed", "url", productURL, "error", err)
		return models.NewErrorProduct(productURL)
	}

	if detected(html) {
		e.logger.Warn("bot detection on product page", "url", productURL)
		coolDown(ctx, e.cooldown)
		return models.NewErrorProduct(productURL)
	}

	product, err := e.parser.ParseProductPage(html, productURL)
	if err != nil {
		e.logger.Warn("product parse failed", "url", productURL, "error", err)
		return models.NewErrorProduct(productURL)
	}

	return product
}

func (e *DynamicExtractor) Close() error {
	return e.session.Close()
}

// renderPage opens a fresh tab, navigates, scrolls so lazy content loads,
// and returns the rendered markup. The tab is always closed before return.
func (e *DynamicExtractor) renderPage(ctx context.Context, target, screenshotName string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	page, err := e.session.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	if err := e.session.NavigateWithRetry(page, target, 3); err != nil {
		return "", fmt.Errorf("navigation failed: %w", err)
	}

	e.session.SimulateHumanBehavior(page)
	e.session.CaptureDiagnostics(page, screenshotName)

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}

	return html, nil
}

func sanitizeForPath(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
