package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/aliexpress-product-scraper/internal/ratelimit"
)

func newForTest() *Downloader {
	return New(Options{Limiter: ratelimit.Unlimited{}})
}

func TestDownloadBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("jpeg-bytes"))
		case "/b.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("png-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	d := newForTest()

	urls := []string{
		server.URL + "/a.jpg",
		"",                       // skipped
		server.URL + "/b.png",    // extension taken from content type
		server.URL + "/gone.jpg", // 404, skipped, batch continues
	}

	written := d.Download(context.Background(), urls, dir, "main")

	assert.Equal(t, []string{"main_1.jpg", "main_3.png"}, written)

	data, err := os.ReadFile(filepath.Join(dir, "main_1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestDownloadNamedFallbackURL(t *testing.T) {
	// First request 404s; the canonicalized fallback URL serves a PNG.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/img.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("png-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	d := newForTest()

	name, err := d.DownloadNamed(context.Background(), server.URL+"/img.png_640x640.png", dir, "main_1")
	require.NoError(t, err)
	assert.Equal(t, "main_1.png", name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDownloadNamedRejectsNonImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>blocked</html>"))
	}))
	defer server.Close()

	d := newForTest()

	_, err := d.DownloadNamed(context.Background(), server.URL+"/img.jpg", t.TempDir(), "main_1")
	assert.ErrorContains(t, err, "not an image")
}

func TestDownloadNamedRejectsBadURLs(t *testing.T) {
	d := newForTest()
	dir := t.TempDir()

	tests := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "relative", url: "/kf/img.jpg"},
		{name: "non-http scheme", url: "ftp://cdn.test/img.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.DownloadNamed(context.Background(), tt.url, dir, "x")
			assert.Error(t, err)
		})
	}
}

func TestDownloadNamedCollisionSuffix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("img"))
	}))
	defer server.Close()

	dir := t.TempDir()
	d := newForTest()

	first, err := d.DownloadNamed(context.Background(), server.URL+"/a.jpg", dir, "Color_Red")
	require.NoError(t, err)
	second, err := d.DownloadNamed(context.Background(), server.URL+"/b.jpg", dir, "Color_Red")
	require.NoError(t, err)

	assert.Equal(t, "Color_Red.jpg", first)
	assert.Equal(t, "Color_Red_1.jpg", second)
}

func TestReferer(t *testing.T) {
	var gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("img"))
	}))
	defer server.Close()

	d := newForTest()
	_, err := d.DownloadNamed(context.Background(), server.URL+"/a.jpg", t.TempDir(), "x")
	require.NoError(t, err)

	assert.Equal(t, defaultReferer, gotReferer)
}
