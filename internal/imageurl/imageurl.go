// Package imageurl canonicalizes AliExpress CDN image URLs.
//
// The CDN encodes size constraints after a literal underscore in the path
// (e.g. img.jpg_220x220q75.jpg_.avif); truncating at the first underscore
// recovers the full-resolution base asset.
package imageurl

import "strings"

var knownExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// Resolve normalizes a raw image URL into its canonical, extension-correct
// form. It returns "" for empty input (callers skip those). Resolve is a
// pure function and is idempotent: Resolve(Resolve(u)) == Resolve(u).
func Resolve(raw string) string {
	if raw == "" {
		return ""
	}

	url := raw
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}

	// Strip the size/quality suffix the CDN appends after "_".
	if i := strings.Index(url, "_"); i >= 0 {
		url = url[:i]
	}

	// .avif is not universally downloadable as-is.
	url = strings.TrimSuffix(url, ".avif")

	if !hasImageExtension(url) {
		url += ".jpg"
	}

	return url
}

func hasImageExtension(url string) bool {
	lower := strings.ToLower(url)
	for _, ext := range knownExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
