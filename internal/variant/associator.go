// Package variant links variant metadata to swatch image URLs and derives
// collision-free, descriptive file names for them.
package variant

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maltedev/aliexpress-product-scraper/internal/models"
)

// maxNameLength bounds the sanitized option-name part of a file name.
const maxNameLength = 30

// Associate maps each resolved variant image URL to a sanitized
// "<property>_<option>" display name. When several variant records share
// one image URL the last record processed wins — stated policy, not a
// defect: two sizes sharing a colour swatch is common.
func Associate(variants []models.VariantRecord) map[string]string {
	names := make(map[string]string)
	for _, v := range variants {
		if !v.HasImage() || v.OptionName == "" {
			continue
		}
		names[v.ImageURL] = Sanitize(v.PropertyType + "_" + v.OptionName)
	}
	return names
}

// BuildFilename returns the base file name (no extension) for the variant
// image at position index. displayName comes from Associate; when the URL
// had no associated record the generic "variant" prefix is used. The index
// keeps repeated URLs distinguishable before on-disk deduplication.
func BuildFilename(displayName string, index int) string {
	if displayName == "" {
		displayName = "variant"
	}
	return fmt.Sprintf("%s_%d", displayName, index+1)
}

// Sanitize keeps alphanumerics, spaces and hyphens, replaces everything
// else with underscores, collapses spaces to underscores and truncates to
// the maximum name length.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune('_')
		}
	}

	s := b.String()
	if len(s) > maxNameLength {
		s = s[:maxNameLength]
	}
	return s
}

// UniqueFilename returns base+ext, appending _1, _2, ... before the
// extension until the name does not exist in dir. Guarantees no silent
// overwrite between two variants that sanitize to the same base name.
func UniqueFilename(dir, base, ext string) string {
	name := base + ext
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s_%d%s", base, n, ext)
	}
}
