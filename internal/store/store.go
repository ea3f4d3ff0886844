// Package store persists normalized products to the output layout:
//
//	<root>/<product_id>_<sanitized_title>/{info_product.txt, product_data.json, main_images/, variant_images/}
//
// All file writes go through temp-file-then-rename so an interrupted save
// never leaves a torn record.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maltedev/aliexpress-product-scraper/internal/models"
	"github.com/maltedev/aliexpress-product-scraper/internal/variant"
)

const (
	infoFileName    = "info_product.txt"
	jsonFileName    = "product_data.json"
	mainImagesDir   = "main_images"
	variantImageDir = "variant_images"

	maxTitleInDirName = 50
)

// AssetDownloader is the image-fetching capability the store drives.
type AssetDownloader interface {
	Download(ctx context.Context, urls []string, destDir, prefix string) []string
	DownloadNamed(ctx context.Context, rawURL, destDir, baseName string) (string, error)
}

type ProductStore struct {
	root       string
	downloader AssetDownloader
	logger     *slog.Logger
}

func New(root string, downloader AssetDownloader) *ProductStore {
	return &ProductStore{
		root:       root,
		downloader: downloader,
		logger:     slog.Default().With("component", "product_store"),
	}
}

// Save persists the product and its images, returning the product
// directory.
func (s *ProductStore) Save(ctx context.Context, product *models.RawProduct) (string, error) {
	_, dir, err := s.SaveRecord(ctx, product)
	return dir, err
}

// SaveRecord is Save plus the derived record, for callers that index
// saved products elsewhere. The JSON record is written twice: once before
// asset download (core fields only) and once after (file mappings
// completed), so a crash during slow downloads still leaves a valid,
// inspectable record. Re-running for the same id+title overwrites in
// place.
func (s *ProductStore) SaveRecord(ctx context.Context, product *models.RawProduct) (*models.StoredProduct, string, error) {
	product.ApplyDefaults()

	dir := filepath.Join(s.root, s.DirName(product))
	mainDir := filepath.Join(dir, mainImagesDir)
	variantDir := filepath.Join(dir, variantImageDir)

	for _, d := range []string{dir, mainDir, variantDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, "", fmt.Errorf("failed to create product directory: %w", err)
		}
	}

	stored := &models.StoredProduct{
		RawProduct:        *product,
		MainImageFiles:    []string{},
		VariantImageFiles: []string{},
		SavedAt:           time.Now(),
	}

	// Phase one: core fields on disk before any network-bound download.
	if err := s.writeJSON(dir, stored); err != nil {
		return nil, "", err
	}
	if err := s.writeInfoFile(dir, stored); err != nil {
		return nil, "", err
	}

	stored.MainImageFiles = s.downloader.Download(ctx, product.MainImages, mainDir, "main")
	stored.VariantImageFiles = s.downloadVariantImages(ctx, product, variantDir)

	// Phase two: same record with the file-name mappings completed.
	if err := s.writeJSON(dir, stored); err != nil {
		return nil, "", err
	}
	if err := s.writeInfoFile(dir, stored); err != nil {
		return nil, "", err
	}

	s.logger.Info("saved product",
		"id", product.ProductID,
		"title", product.Title,
		"main_images", len(stored.MainImageFiles),
		"variant_images", len(stored.VariantImageFiles))

	return stored, dir, nil
}

// DirName returns the deterministic directory name for a product.
func (s *ProductStore) DirName(product *models.RawProduct) string {
	title := product.Title
	if len(title) > maxTitleInDirName {
		title = title[:maxTitleInDirName]
	}
	return sanitizePathPart(product.ProductID) + "_" + sanitizePathPart(title)
}

// sanitizePathPart mirrors variant.Sanitize but without its file-name
// length cap; directory names carry the longer title fragment.
func sanitizePathPart(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// downloadVariantImages names each variant image after its associated
// option via the URL→name map, falling back to the generic prefix for
// unassociated URLs.
func (s *ProductStore) downloadVariantImages(ctx context.Context, product *models.RawProduct, destDir string) []string {
	names := variant.Associate(product.Variants)
	written := []string{}

	for i, url := range product.VariantImages {
		if url == "" {
			continue
		}

		base := variant.BuildFilename(names[url], i)
		name, err := s.downloader.DownloadNamed(ctx, url, destDir, base)
		if err != nil {
			s.logger.Warn("variant image download failed", "url", url, "error", err)
			continue
		}
		written = append(written, name)
	}

	return written
}

func (s *ProductStore) writeJSON(dir string, stored *models.StoredProduct) error {
	data, err := json.MarshalIndent(stored, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, jsonFileName), data); err != nil {
		return fmt.Errorf("failed to write JSON record: %w", err)
	}
	return nil
}

func (s *ProductStore) writeInfoFile(dir string, stored *models.StoredProduct) error {
	var b strings.Builder

	section := func(label, value string) {
		if value == "" {
			value = "N/A"
		}
		fmt.Fprintf(&b, "### %s\n%s\n\n", label, value)
	}

	section("Product name", stored.Title)
	section("Product ID", stored.ProductID)
	section("Link", stored.ProductURL)
	section("Price", stored.Price)
	section("Description", stored.Description)
	section("Category", stored.Category)
	section("Subcategory", stored.Subcategory)
	section("Item Type", stored.ItemType)

	b.WriteString("### Variants\n")
	if len(stored.Variants) == 0 {
		b.WriteString("No variant information available\n")
	} else {
		names := variant.Associate(stored.Variants)
		for i, v := range stored.Variants {
			fmt.Fprintf(&b, "- Variant %d:\n", i+1)
			fmt.Fprintf(&b, "  Type: %s\n", orNA(v.PropertyType))
			fmt.Fprintf(&b, "  Name: %s\n", orNA(v.OptionName))
			fmt.Fprintf(&b, "  Image URL: %s\n", orNA(v.ImageURL))
			fmt.Fprintf(&b, "  Image File: %s\n", variantFileLabel(v, names, stored.VariantImageFiles))
		}
	}

	if err := writeAtomic(filepath.Join(dir, infoFileName), []byte(b.String())); err != nil {
		return fmt.Errorf("failed to write info file: %w", err)
	}
	return nil
}

// variantFileLabel finds the written file whose base name matches the
// variant's display name; before downloads run (phase one) or for
// text-only variants it reports "No image".
func variantFileLabel(v models.VariantRecord, names map[string]string, files []string) string {
	if !v.HasImage() {
		return "No image"
	}

	display := names[v.ImageURL]
	if display == "" {
		display = "variant"
	}
	for _, f := range files {
		if strings.HasPrefix(f, display) {
			return f
		}
	}
	return "No image"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
