package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/aliexpress-product-scraper/internal/models"
)

func newStaticForTest(t *testing.T, baseURL string) *StaticExtractor {
	t.Helper()
	e, err := NewStaticExtractor(StaticOptions{
		Timeout:       5 * time.Second,
		Cooldown:      time.Millisecond,
		SearchBaseURL: baseURL,
	})
	require.NoError(t, err)
	return e
}

func TestStaticSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "red dress Women's Clothing", r.URL.Query().Get("SearchText"))
		assert.NotEmpty(t, r.Header.Get("Referer"))
		w.Write([]byte(`<html><body>
			<a href="/item/111.html">one</a>
			<a href="/item/222.html">two</a>
		</body></html>`))
	}))
	defer server.Close()

	e := newStaticForTest(t, server.URL+"/wholesale?SearchText=")
	defer e.Close()

	results, err := e.Search(context.Background(), "red dress Women's Clothing", 5)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "https://aliexpress.com/item/111.html", results[0].ProductURL)
}

func TestStaticSearchBotDetection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>Our systems have detected Unusual Traffic from your network</body></html>`))
	}))
	defer server.Close()

	e := newStaticForTest(t, server.URL+"/s?q=")
	defer e.Close()

	_, err := e.Search(context.Background(), "anything", 5)
	assert.ErrorIs(t, err, ErrBotDetected)
}

func TestStaticExtractDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h1 data-pl="product-title">Ceramic Mug</h1>
			<span class="product-price-value">US $4.20</span>
			<div class="image-gallery"><img src="//cdn.test/mug_220x220.jpg"></div>
		</body></html>`))
	}))
	defer server.Close()

	e := newStaticForTest(t, server.URL+"/s?q=")
	defer e.Close()

	product := e.ExtractDetail(context.Background(), server.URL+"/item/987.html")

	require.NotNil(t, product)
	assert.False(t, product.IsErrorProduct())
	assert.Equal(t, "Ceramic Mug", product.Title)
	assert.Equal(t, "US $4.20", product.Price)
	assert.Equal(t, "987", product.ProductID)
	assert.Equal(t, []string{"https://cdn.test/mug.jpg"}, product.MainImages)
}

func TestStaticExtractDetailNeverFailsOpenly(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "captcha page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html><body>please solve this CAPTCHA to continue</body></html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			e := newStaticForTest(t, server.URL+"/s?q=")
			defer e.Close()

			product := e.ExtractDetail(context.Background(), server.URL+"/item/1.html")

			require.NotNil(t, product)
			assert.True(t, product.IsErrorProduct())
			assert.Equal(t, models.ErrorTitle, product.Title)
			assert.Regexp(t, `^ERROR-\d{5}$`, product.ProductID)
			assert.Empty(t, product.MainImages)
			assert.Empty(t, product.Variants)
		})
	}
}

func TestStaticExtractDetailUnreachableHost(t *testing.T) {
	e := newStaticForTest(t, "http://127.0.0.1:1/s?q=")
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	product := e.ExtractDetail(ctx, "http://127.0.0.1:1/item/1.html")
	require.NotNil(t, product)
	assert.True(t, product.IsErrorProduct())
}
