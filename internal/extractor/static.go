package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/maltedev/aliexpress-product-scraper/internal/models"
	"github.com/maltedev/aliexpress-product-scraper/internal/parser"
	"github.com/maltedev/aliexpress-product-scraper/internal/ratelimit"
)

// StaticExtractor fetches pages with a plain HTTP session and parses the
// served markup. Cheaper than the browser backend but blind to
// script-rendered content.
type StaticExtractor struct {
	client   *http.Client
	parser   parser.Parser
	limiter  ratelimit.Limiter
	logger   *slog.Logger
	cooldown time.Duration
	baseURL  string
	headers  map[string]string
}

type StaticOptions struct {
	Proxy     string
	Timeout   time.Duration
	UserAgent string
	Limiter   ratelimit.Limiter
	Cooldown  time.Duration

	// SearchBaseURL overrides the production search endpoint (tests).
	SearchBaseURL string
}

func NewStaticExtractor(opts StaticOptions) (*StaticExtractor, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.Unlimited{}
	}
	if opts.Cooldown == 0 {
		opts.Cooldown = defaultDetectionCooldown
	}
	if opts.SearchBaseURL == "" {
		opts.SearchBaseURL = searchBaseURL
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &StaticExtractor{
		client: &http.Client{
			Jar:       jar,
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		parser:   parser.NewAliexpressParser(),
		limiter:  opts.Limiter,
		logger:   slog.Default().With("component", "static_extractor"),
		cooldown: opts.Cooldown,
		baseURL:  opts.SearchBaseURL,
		headers: map[string]string{
			"User-Agent":                opts.UserAgent,
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.5",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
			"Referer":                   "https://www.aliexpress.com/",
		},
	}, nil
}

func (e *StaticExtractor) Search(ctx context.Context, term string, limit int) ([]models.SearchResult, error) {
	target := e.baseURL + url.QueryEscape(term)
	e.logger.Info("searching catalog", "term", term, "url", target)

	html, err := e.fetch(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("search fetch failed: %w", err)
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

func (e *StaticExtractor) ExtractDetail(ctx context.Context, productURL string) *models.RawProduct {
	e.logger.Info("extracting product", "url", productURL)

	html, err := e.fetch(ctx, productURL)
	if err != nil {
		e.logger.Warn("product fetch failed", "url", productURL, "error", err)
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

func (e *StaticExtractor) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

func (e *StaticExtractor) fetch(ctx context.Context, target string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	return string(body), nil
}
