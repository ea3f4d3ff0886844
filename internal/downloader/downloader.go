// Package downloader fetches product images to local storage with
// content-type verification. Each URL's outcome is independent: one
// failing image never aborts a batch.
package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maltedev/aliexpress-product-scraper/internal/imageurl"
	"github.com/maltedev/aliexpress-product-scraper/internal/ratelimit"
	"github.com/maltedev/aliexpress-product-scraper/internal/variant"
)

const defaultReferer = "https://www.aliexpress.com/"

type Downloader struct {
	client  *http.Client
	limiter ratelimit.Limiter
	logger  *slog.Logger
	referer string
	agent   string
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
	Referer   string

	// Limiter paces consecutive downloads. A jittered limiter is the
	// production default; tests pass ratelimit.Unlimited.
	Limiter ratelimit.Limiter
}

func New(opts Options) *Downloader {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if opts.Referer == "" {
		opts.Referer = defaultReferer
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.NewJittered(500*time.Millisecond, 2*time.Second)
	}

	return &Downloader{
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: opts.Limiter,
		logger:  slog.Default().With("component", "downloader"),
		referer: opts.Referer,
		agent:   opts.UserAgent,
	}
}

// Download fetches each URL into destDir as <prefix>_<n> with the
// extension taken from the verified content type. Returns the file names
// actually written, in input order, skipping failures.
func (d *Downloader) Download(ctx context.Context, urls []string, destDir, prefix string) []string {
	var written []string

	for i, raw := range urls {
		name, err := d.DownloadNamed(ctx, raw, destDir, fmt.Sprintf("%s_%d", prefix, i+1))
		if err != nil {
			d.logger.Warn("image download failed", "url", raw, "error", err)
			continue
		}
		written = append(written, name)
	}

	return written
}

// DownloadNamed fetches one URL into destDir under the given base name
// (extension appended from the verified content type, uniqueness suffix
// appended on collision). On a non-success status it retries once against
// the canonicalized fallback URL before giving up.
func (d *Downloader) DownloadNamed(ctx context.Context, rawURL, destDir, baseName string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("not an absolute http(s) URL: %q", rawURL)
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, contentType, err := d.fetch(ctx, rawURL)
	if err != nil {
		// Fallback policy: retry once with size/format suffixes stripped.
		fallback := imageurl.Resolve(rawURL)
		if fallback == rawURL {
			return "", err
		}

		d.logger.Debug("retrying with fallback URL", "url", rawURL, "fallback", fallback)
		body, contentType, err = d.fetch(ctx, fallback)
		if err != nil {
			return "", err
		}
	}

	// The CDN sometimes serves a different format than the URL extension
	// implies; trust the response, not the URL.
	if !strings.HasPrefix(contentType, "image") {
		return "", fmt.Errorf("not an image: content type %q", contentType)
	}

	name := variant.UniqueFilename(destDir, baseName, extensionFor(contentType))
	if err := writeAtomic(filepath.Join(destDir, name), body); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	d.logger.Info("downloaded image", "url", rawURL, "file", name)
	return name, nil
}

func (d *Downloader) fetch(ctx context.Context, target string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", d.agent)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	// Hot-link protection on the origin requires a catalog referer.
	req.Header.Set("Referer", d.referer)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read body: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}

// writeAtomic writes through a temp file and renames so a crash mid-write
// never leaves a torn file.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
