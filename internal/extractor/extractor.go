// Package extractor provides the two interchangeable extraction backends:
// a static fetch+parse path and a dynamic browser-rendering path. Both
// honour the same contract: detail extraction never fails openly, it
// returns an error placeholder product instead.
package extractor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/maltedev/aliexpress-product-scraper/internal/models"
)

var (
	ErrBotDetected = errors.New("bot detection triggered")
	ErrNoResults   = errors.New("no search results found")
)

const (
	searchBaseURL = "https://www.aliexpress.com/wholesale?SearchText="

	// Cooldown applied after the origin flags the session. Single-request
	// circuit breaker, not a global backoff: the item-level retry policy
	// owns anything longer.
	defaultDetectionCooldown = 60 * time.Second
)

// Extractor is the capability consumed by the traversal: catalog search
// plus detail extraction. Selected once at start-up; no runtime type
// inspection.
type Extractor interface {
	// Search returns up to limit candidate product URLs for a search term,
	// in the order the results page lists them.
	Search(ctx context.Context, term string, limit int) ([]models.SearchResult, error)

	// ExtractDetail returns a well-formed product record for the URL. On
	// any internal failure it returns the error placeholder; callers never
	// branch on an error.
	ExtractDetail(ctx context.Context, productURL string) *models.RawProduct

	Close() error
}

// detected reports whether page content carries a bot-detection signal.
func detected(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, "unusual traffic") || strings.Contains(lower, "captcha")
}

// coolDown sleeps for d unless the context ends first.
func coolDown(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
