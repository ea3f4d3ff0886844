package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/aliexpress-product-scraper/internal/downloader"
	"github.com/maltedev/aliexpress-product-scraper/internal/models"
	"github.com/maltedev/aliexpress-product-scraper/internal/ratelimit"
)

// pngBytes is a minimal valid-enough payload served as image/png.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestStore(t *testing.T) (*ProductStore, string) {
	t.Helper()
	root := t.TempDir()
	dl := downloader.New(downloader.Options{Limiter: ratelimit.Unlimited{}})
	return New(root, dl), root
}

func TestSaveWritesCompleteLayout(t *testing.T) {
	server := newImageServer(t)
	store, _ := newTestStore(t)

	product := &models.RawProduct{
		Title:       "Wireless Earbuds Pro",
		Price:       "$19.99",
		Description: "Bluetooth 5.3 earbuds",
		ProductURL:  "https://www.aliexpress.com/item/1005001.html",
		ProductID:   "1005001",
		MainImages:  []string{server.URL + "/a.png", server.URL + "/b.png"},
		VariantImages: []string{
			server.URL + "/red.png",
		},
		Variants: []models.VariantRecord{
			{PropertyType: "Color", OptionName: "Red", ImageURL: server.URL + "/red.png"},
			{PropertyType: "Size", OptionName: "XL"},
		},
		Category: "Electronics",
	}

	dir, err := store.Save(context.Background(), product)
	require.NoError(t, err)
	assert.Equal(t, "1005001_Wireless_Earbuds_Pro", filepath.Base(dir))

	data, err := os.ReadFile(filepath.Join(dir, "product_data.json"))
	require.NoError(t, err)

	var stored models.StoredProduct
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "Wireless Earbuds Pro", stored.Title)
	assert.Equal(t, "1005001", stored.ProductID)
	assert.Len(t, stored.MainImageFiles, 2)
	assert.Len(t, stored.VariantImageFiles, 1)
	assert.True(t, strings.HasPrefix(stored.VariantImageFiles[0], "Color_Red"))

	for _, name := range stored.MainImageFiles {
		_, err := os.Stat(filepath.Join(dir, "main_images", name))
		assert.NoError(t, err)
	}
	for _, name := range stored.VariantImageFiles {
		_, err := os.Stat(filepath.Join(dir, "variant_images", name))
		assert.NoError(t, err)
	}

	info, err := os.ReadFile(filepath.Join(dir, "info_product.txt"))
	require.NoError(t, err)
	text := string(info)
	assert.Contains(t, text, "### Product name\nWireless Earbuds Pro")
	assert.Contains(t, text, "### Price\n$19.99")
	assert.Contains(t, text, "Type: Color")
	assert.Contains(t, text, "Name: XL")
	assert.Contains(t, text, "Image File: "+stored.VariantImageFiles[0])
}

func TestSaveTruncatesLongTitleInDirName(t *testing.T) {
	store, _ := newTestStore(t)

	product := &models.RawProduct{
		Title:     strings.Repeat("a", 80),
		ProductID: "42",
	}

	dir, err := store.Save(context.Background(), product)
	require.NoError(t, err)
	assert.Equal(t, "42_"+strings.Repeat("a", 50), filepath.Base(dir))
}

func TestSaveEmptyProductStillWritesValidRecord(t *testing.T) {
	store, _ := newTestStore(t)

	product := &models.RawProduct{}
	dir, err := store.Save(context.Background(), product)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "product_data.json"))
	require.NoError(t, err)

	var stored models.StoredProduct
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, models.DefaultTitle, stored.Title)
	assert.Equal(t, models.DefaultPrice, stored.Price)
	assert.Empty(t, stored.MainImageFiles)
	assert.Empty(t, stored.VariantImageFiles)

	info, err := os.ReadFile(filepath.Join(dir, "info_product.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "No variant information available")
}

func TestSaveSkipsUnreachableImages(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)
	store, _ := newTestStore(t)

	product := &models.RawProduct{
		Title:      "Broken Images",
		ProductID:  "7",
		MainImages: []string{server.URL + "/missing.jpg"},
	}

	dir, err := store.Save(context.Background(), product)
	require.NoError(t, err)

	var stored models.StoredProduct
	data, err := os.ReadFile(filepath.Join(dir, "product_data.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Empty(t, stored.MainImageFiles)
}

func TestSaveOverwritesExistingRecord(t *testing.T) {
	store, _ := newTestStore(t)

	product := &models.RawProduct{Title: "Same Product", ProductID: "9", Price: "$1"}
	_, err := store.Save(context.Background(), product)
	require.NoError(t, err)

	product.Price = "$2"
	dir, err := store.Save(context.Background(), product)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "product_data.json"))
	require.NoError(t, err)
	var stored models.StoredProduct
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "$2", stored.Price)
}
