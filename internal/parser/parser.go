package parser

import (
	"github.com/maltedev/aliexpress-product-scraper/internal/models"
)

// Parser turns raw page markup into domain records. Implementations never
// fail on missing fields; every field degrades to its documented default.
type Parser interface {
	ParseProductPage(html string, productURL string) (*models.RawProduct, error)
	ParseSearchResults(html string, limit int) ([]models.SearchResult, error)
}

// Selectors holds the ordered selector tiers per field. The first tier
// yielding a non-empty trimmed value wins. Target markup drifts over time,
// so the tiers are data, not code: callers may supply their own set.
type Selectors struct {
	Title         []string
	Price         []string
	Description   []string
	MainImages    []string
	VariantGroups []string
	VariantTitle  []string
	VariantImage  []string
	VariantText   []string
	ProductID     []string
	SearchLinks   []string
}

// DefaultSelectors covers the markup revisions observed so far, newest
// first.
func DefaultSelectors() Selectors {
	return Selectors{
		Title: []string{
			`h1[data-pl="product-title"]`,
			"h1.product-title-text",
			".product-title",
			"._1Qg3M",
			".pdp-mod-product-title",
			"h1",
		},
		Price: []string{
			".pdp-info-right .price",
			".product-price-value",
			"._12L_Hx",
			".pdp-mod-product-price",
			".uniform-banner-box-price",
			".product-price-current",
			".product-price",
		},
		Description: []string{
			".product-description",
			"._30PRb",
			".detail-desc",
			".pdp-mod-product-description",
			"#product-description",
		},
		MainImages: []string{
			".slider--item--RpyeewA img",
			".magnifier--image--RM17RL2",
			".image-gallery img",
			".pdp-img img",
			"._3-0A8C img",
			".pdp-mod-product-image img",
			".images-view-item img",
		},
		VariantGroups: []string{
			".sku-item--property--HuasaIz",
			".sku-property",
			".property-item",
		},
		VariantTitle: []string{
			".sku-item--title--Z0HLO87",
			".sku-title",
			".sku-property-title",
			".property-item--title",
		},
		VariantImage: []string{
			".sku-item--image--jMUnnGA img",
			".sku-property-image img",
			".sku-item img",
		},
		VariantText: []string{
			".sku-item--text--hYfAukP",
			".sku-property-text",
		},
		ProductID: []string{
			"[data-sku-id]",
			"[data-product-id]",
			"[data-item-id]",
		},
		SearchLinks: []string{
			".search-item-card-wrapper-gallery a[href*='/item/']",
			".manhattan--container--1lP57Ag a[href*='/item/']",
			".list--gallery--C2f2tvm a[href*='/item/']",
			"a[href*='/item/']",
		},
	}
}
