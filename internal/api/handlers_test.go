package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/aliexpress-product-scraper/internal/jobs"
	"github.com/maltedev/aliexpress-product-scraper/internal/models"
)

type fakeExtractor struct {
	product *models.RawProduct
}

func (f *fakeExtractor) Search(ctx context.Context, term string, limit int) ([]models.SearchResult, error) {
	return nil, nil
}

func (f *fakeExtractor) ExtractDetail(ctx context.Context, productURL string) *models.RawProduct {
	if f.product != nil {
		return f.product
	}
	return models.NewErrorProduct(productURL)
}

func (f *fakeExtractor) Close() error { return nil }

func newTestServer(t *testing.T, ext *fakeExtractor) *httptest.Server {
	t.Helper()
	manager := jobs.NewManager(func(ctx context.Context, term string, quota int) (int64, error) {
		return 0, nil
	}, time.Minute)
	handlers := NewHandlers(ext, manager, slog.Default())
	server := httptest.NewServer(handlers.Router())
	t.Cleanup(server.Close)
	return server
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t, &fakeExtractor{})

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExtractEndpoint(t *testing.T) {
	ext := &fakeExtractor{product: &models.RawProduct{
		Title:     "Wireless Earbuds Pro",
		ProductID: "1005001",
	}}
	server := newTestServer(t, ext)

	resp, err := http.Post(server.URL+"/api/v1/extract", "application/json",
		strings.NewReader(`{"url": "https://www.aliexpress.com/item/1005001.html"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var product models.RawProduct
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&product))
	assert.Equal(t, "1005001", product.ProductID)
}

func TestExtractRequiresURL(t *testing.T) {
	server := newTestServer(t, &fakeExtractor{})

	resp, err := http.Post(server.URL+"/api/v1/extract", "application/json",
		strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJobLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t, &fakeExtractor{})

	resp, err := http.Post(server.URL+"/api/v1/jobs", "application/json",
		strings.NewReader(`{"search_term": "headphones", "quota": 3}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created CreateJobResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.JobID)
	assert.Equal(t, jobs.StatusPending, created.Status)

	getResp, err := http.Get(server.URL + "/api/v1/jobs/" + created.JobID)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var job jobs.Job
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&job))
	assert.Equal(t, "headphones", job.SearchTerm)

	missing, err := http.Get(server.URL + "/api/v1/jobs/nonexistent")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestCreateJobValidation(t *testing.T) {
	server := newTestServer(t, &fakeExtractor{})

	resp, err := http.Post(server.URL+"/api/v1/jobs", "application/json",
		strings.NewReader(`{"quota": 3}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
