package models

import (
	"fmt"
	"math/rand"
	"time"
)

// Field defaults used when every selector tier comes up empty.
const (
	DefaultTitle       = "Unknown Product"
	DefaultPrice       = "Unknown Price"
	DefaultDescription = "No description available"
)

// Sentinels used by the error placeholder product.
const (
	ErrorTitle       = "Error fetching product"
	ErrorPrice       = "Unknown"
	ErrorDescription = "Failed to retrieve product details"
)

// VariantRecord is one purchasable option (colour, size, ...) found on a
// product page. ImageURL is empty for text-only options. Duplicate
// (PropertyType, OptionName) pairs are possible on malformed pages and are
// tolerated everywhere downstream.
type VariantRecord struct {
	PropertyType string `json:"property_type"`
	OptionName   string `json:"name"`
	ImageURL     string `json:"image"`
}

// HasImage reports whether the variant carries its own swatch image.
func (v VariantRecord) HasImage() bool {
	return v.ImageURL != ""
}

// RawProduct is the immutable result of one detail extraction. All image
// URLs have already been canonicalized by imageurl.Resolve.
type RawProduct struct {
	Title         string          `json:"title"`
	Price         string          `json:"price"`
	Description   string          `json:"description"`
	ProductURL    string          `json:"product_url"`
	ProductID     string          `json:"product_id"`
	MainImages    []string        `json:"main_images"`
	VariantImages []string        `json:"variant_images"`
	Variants      []VariantRecord `json:"variants"`
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory"`
	ItemType      string          `json:"item_type"`
}

// StoredProduct is a RawProduct plus the file names actually written to
// disk. Derived once by the store; never mutated afterwards.
type StoredProduct struct {
	RawProduct
	MainImageFiles    []string  `json:"main_image_files"`
	VariantImageFiles []string  `json:"variant_image_files"`
	SavedAt           time.Time `json:"saved_at"`
}

// SearchResult is one candidate product URL discovered by a catalog search.
type SearchResult struct {
	ProductURL string `json:"product_url"`
}

// NewErrorProduct builds the placeholder returned whenever detail
// extraction fails. Every call site can treat the result uniformly; no
// branching on errors is required upstream.
func NewErrorProduct(productURL string) *RawProduct {
	return &RawProduct{
		Title:         ErrorTitle,
		Price:         ErrorPrice,
		Description:   ErrorDescription,
		ProductURL:    productURL,
		ProductID:     fmt.Sprintf("ERROR-%05d", rand.Intn(90000)+10000),
		MainImages:    []string{},
		VariantImages: []string{},
		Variants:      []VariantRecord{},
	}
}

// IsErrorProduct reports whether p is an extraction placeholder.
func (p *RawProduct) IsErrorProduct() bool {
	return p.Title == ErrorTitle
}

// ApplyDefaults fills empty display fields with their documented defaults
// and normalizes nil slices so the JSON record always carries arrays.
func (p *RawProduct) ApplyDefaults() {
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Price == "" {
		p.Price = DefaultPrice
	}
	if p.Description == "" {
		p.Description = DefaultDescription
	}
	if p.MainImages == nil {
		p.MainImages = []string{}
	}
	if p.VariantImages == nil {
		p.VariantImages = []string{}
	}
	if p.Variants == nil {
		p.Variants = []VariantRecord{}
	}
}
