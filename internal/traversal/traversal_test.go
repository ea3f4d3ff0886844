package traversal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/aliexpress-product-scraper/internal/catalog"
	"github.com/maltedev/aliexpress-product-scraper/internal/downloader"
	"github.com/maltedev/aliexpress-product-scraper/internal/models"
	"github.com/maltedev/aliexpress-product-scraper/internal/ratelimit"
	"github.com/maltedev/aliexpress-product-scraper/internal/storage"
	"github.com/maltedev/aliexpress-product-scraper/internal/store"
)

type stubExtractor struct {
	mu            sync.Mutex
	searchCalls   int
	searchTerms   []string
	searchResults []models.SearchResult
	searchErr     error
	extractCalls  atomic.Int64
}

func (s *stubExtractor) Search(ctx context.Context, term string, limit int) ([]models.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCalls++
	s.searchTerms = append(s.searchTerms, term)
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	if limit < len(s.searchResults) {
		return s.searchResults[:limit], nil
	}
	return s.searchResults, nil
}

func (s *stubExtractor) ExtractDetail(ctx context.Context, productURL string) *models.RawProduct {
	s.extractCalls.Add(1)
	return &models.RawProduct{
		Title:      "Product for " + productURL,
		Price:      "$5.00",
		ProductURL: productURL,
		ProductID:  filepath.Base(productURL),
	}
}

func (s *stubExtractor) Close() error { return nil }

type recordingSaver struct {
	mu    sync.Mutex
	saved []string
	err   error
}

func (r *recordingSaver) Save(ctx context.Context, product *models.RawProduct) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.saved = append(r.saved, product.ProductID)
	return "/tmp/" + product.ProductID, nil
}

type recordedSleep struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *recordedSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, d)
	return nil
}

func singleItemTree(items ...string) *catalog.Tree {
	leaves := make([]catalog.Item, len(items))
	for i, item := range items {
		leaves[i] = catalog.Item(item)
	}
	return &catalog.Tree{Categories: []catalog.Category{{
		Name: "Electronics",
		Subcategories: []catalog.Subcategory{{
			Name:  "Audio",
			Items: leaves,
		}},
	}}}
}

func TestEmptySearchRetriesThreeTimesWithBackoff(t *testing.T) {
	ext := &stubExtractor{searchResults: []models.SearchResult{}}
	saver := &recordingSaver{}
	sleeper := &recordedSleep{}

	engine := New(ext, saver, nil, Options{
		Quota:    5,
		WaitUnit: time.Millisecond,
		Sleep:    sleeper.sleep,
	})

	summary, err := engine.Run(context.Background(), singleItemTree("headphones"))
	require.NoError(t, err)

	assert.Equal(t, 3, ext.searchCalls)
	assert.Equal(t, []time.Duration{20 * time.Millisecond, 40 * time.Millisecond}, sleeper.waits)
	assert.Equal(t, int64(0), summary.Saved)
	assert.Empty(t, saver.saved)
}

func TestSearchErrorsUseLongerBackoff(t *testing.T) {
	ext := &stubExtractor{searchErr: fmt.Errorf("connection refused")}
	sleeper := &recordedSleep{}

	engine := New(ext, &recordingSaver{}, nil, Options{
		Quota:    5,
		WaitUnit: time.Millisecond,
		Sleep:    sleeper.sleep,
	})

	_, err := engine.Run(context.Background(), singleItemTree("headphones"))
	require.NoError(t, err)

	assert.Equal(t, 3, ext.searchCalls)
	assert.Equal(t, []time.Duration{30 * time.Millisecond, 60 * time.Millisecond}, sleeper.waits)
}

func TestSuccessfulAttemptStopsRetrying(t *testing.T) {
	ext := &stubExtractor{searchResults: []models.SearchResult{
		{ProductURL: "https://example.com/item/1.html"},
	}}
	saver := &recordingSaver{}

	engine := New(ext, saver, nil, Options{Quota: 5, WaitUnit: time.Millisecond})
	summary, err := engine.Run(context.Background(), singleItemTree("headphones"))
	require.NoError(t, err)

	assert.Equal(t, 1, ext.searchCalls)
	assert.Equal(t, int64(1), summary.Saved)
}

func TestSearchTermIncludesSubcategory(t *testing.T) {
	ext := &stubExtractor{searchResults: []models.SearchResult{
		{ProductURL: "https://example.com/item/1.html"},
	}}

	engine := New(ext, &recordingSaver{}, nil, Options{Quota: 5, WaitUnit: time.Millisecond})
	_, err := engine.Run(context.Background(), singleItemTree("earbuds"))
	require.NoError(t, err)

	assert.Equal(t, []string{"earbuds Audio"}, ext.searchTerms)
}

func TestSavesPreserveDiscoveryOrder(t *testing.T) {
	ext := &stubExtractor{searchResults: []models.SearchResult{
		{ProductURL: "https://example.com/item/1.html"},
		{ProductURL: "https://example.com/item/2.html"},
		{ProductURL: "https://example.com/item/3.html"},
		{ProductURL: "https://example.com/item/4.html"},
	}}
	saver := &recordingSaver{}

	engine := New(ext, saver, nil, Options{Quota: 10, Workers: 4, WaitUnit: time.Millisecond})
	_, err := engine.Run(context.Background(), singleItemTree("headphones"))
	require.NoError(t, err)

	assert.Equal(t, []string{"1.html", "2.html", "3.html", "4.html"}, saver.saved)
}

func TestJournalSkipsCompletedProducts(t *testing.T) {
	journal, err := storage.NewJournal(filepath.Join(t.TempDir(), "journal.json"))
	require.NoError(t, err)
	require.NoError(t, journal.Mark("https://example.com/item/1.html", "1", storage.StatusCompleted))

	ext := &stubExtractor{searchResults: []models.SearchResult{
		{ProductURL: "https://example.com/item/1.html"},
		{ProductURL: "https://example.com/item/2.html"},
	}}
	saver := &recordingSaver{}

	engine := New(ext, saver, journal, Options{Quota: 10, WaitUnit: time.Millisecond})
	summary, err := engine.Run(context.Background(), singleItemTree("headphones"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.Skipped)
	assert.Equal(t, []string{"2.html"}, saver.saved)
	assert.Equal(t, int64(1), ext.extractCalls.Load())
}

func TestQuotaStopsTraversalMidTree(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	t.Cleanup(server.Close)

	root := t.TempDir()
	dl := downloader.New(downloader.Options{Limiter: ratelimit.Unlimited{}})
	productStore := store.New(root, dl)

	ext := &richStubExtractor{imageBase: server.URL}
	engine := New(ext, productStore, nil, Options{Quota: 1, WaitUnit: time.Millisecond})

	tree := singleItemTree("headphones", "speakers", "microphones")
	summary, err := engine.Run(context.Background(), tree)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.Saved)
	assert.Equal(t, 1, summary.Items)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	dir := filepath.Join(root, entries[0].Name())
	for _, name := range []string{"info_product.txt", "product_data.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err)
	}

	mainFiles, err := os.ReadDir(filepath.Join(dir, "main_images"))
	require.NoError(t, err)
	assert.Len(t, mainFiles, 2)

	variantFiles, err := os.ReadDir(filepath.Join(dir, "variant_images"))
	require.NoError(t, err)
	assert.Len(t, variantFiles, 1)
}

// richStubExtractor returns one fully populated product per search.
type richStubExtractor struct {
	imageBase string
}

func (s *richStubExtractor) Search(ctx context.Context, term string, limit int) ([]models.SearchResult, error) {
	return []models.SearchResult{{ProductURL: "https://example.com/item/100.html"}}, nil
}

func (s *richStubExtractor) ExtractDetail(ctx context.Context, productURL string) *models.RawProduct {
	return &models.RawProduct{
		Title:      "Stub Headphones",
		Price:      "$9.99",
		ProductURL: productURL,
		ProductID:  "100",
		MainImages: []string{
			s.imageBase + "/a.jpg",
			s.imageBase + "/b.jpg",
		},
		VariantImages: []string{s.imageBase + "/red.jpg"},
		Variants: []models.VariantRecord{
			{PropertyType: "Color", OptionName: "Red", ImageURL: s.imageBase + "/red.jpg"},
		},
	}
}

func (s *richStubExtractor) Close() error { return nil }
