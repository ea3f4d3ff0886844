package parser

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/maltedev/aliexpress-product-scraper/internal/imageurl"
	"github.com/maltedev/aliexpress-product-scraper/internal/models"
)

const (
	maxMainImages    = 5
	catalogOrigin    = "https://aliexpress.com"
	idAttrCandidates = "data-sku-id,data-product-id,data-item-id"
)

var itemIDPattern = regexp.MustCompile(`/item/(\d+)`)

// AliexpressParser extracts product records from AliExpress markup using
// tiered selector fallback.
type AliexpressParser struct {
	selectors Selectors
}

func NewAliexpressParser() *AliexpressParser {
	return &AliexpressParser{selectors: DefaultSelectors()}
}

// NewAliexpressParserWithSelectors lets callers ship updated selector tiers
// without a code change.
func NewAliexpressParserWithSelectors(sel Selectors) *AliexpressParser {
	return &AliexpressParser{selectors: sel}
}

// ParseProductPage never returns a partial failure: fields that no selector
// tier can locate fall back to their named defaults.
func (p *AliexpressParser) ParseProductPage(html string, productURL string) (*models.RawProduct, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	product := &models.RawProduct{
		ProductURL: productURL,
		Title:      p.firstText(doc, p.selectors.Title),
		Price:      p.firstText(doc, p.selectors.Price),
	}
	product.Description = p.firstText(doc, p.selectors.Description)
	product.MainImages = p.extractMainImages(doc)
	product.Variants, product.VariantImages = p.extractVariants(doc)
	product.ProductID = p.extractProductID(doc, productURL)
	product.ApplyDefaults()

	return product, nil
}

// ParseSearchResults collects up to limit candidate product URLs in page
// order.
func (p *AliexpressParser) ParseSearchResults(html string, limit int) ([]models.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[string]bool)
	var results []models.SearchResult

	for _, selector := range p.selectors.SearchLinks {
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			href, ok := sel.Attr("href")
			if !ok || !strings.Contains(href, "/item/") {
				return true
			}

			url := normalizeProductURL(href)
			if url == "" || seen[url] {
				return true
			}

			seen[url] = true
			results = append(results, models.SearchResult{ProductURL: url})
			return limit <= 0 || len(results) < limit
		})

		if len(results) > 0 {
			break
		}
	}

	return results, nil
}

func (p *AliexpressParser) firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func (p *AliexpressParser) extractMainImages(doc *goquery.Document) []string {
	var images []string
	seen := make(map[string]bool)

	for _, selector := range p.selectors.MainImages {
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			src := imageSrc(sel)
			resolved := imageurl.Resolve(src)
			if resolved != "" && !seen[resolved] {
				seen[resolved] = true
				images = append(images, resolved)
			}
			return len(images) < maxMainImages
		})

		if len(images) > 0 {
			break
		}
	}

	if images == nil {
		images = []string{}
	}
	return images
}

// extractVariants walks the sku property groups. Image-based options yield
// a VariantRecord with a resolved swatch URL; text-only options (sizes)
// yield a record without one. Repeated image URLs are de-duplicated in the
// flat VariantImages list but kept in the record list.
func (p *AliexpressParser) extractVariants(doc *goquery.Document) ([]models.VariantRecord, []string) {
	var variants []models.VariantRecord
	var variantImages []string
	seenImages := make(map[string]bool)

	groups := p.findFirstMatching(doc, p.selectors.VariantGroups)
	groups.Each(func(_ int, group *goquery.Selection) {
		propertyType := p.groupTitle(group)

		for _, selector := range p.selectors.VariantImage {
			group.Find(selector).Each(func(_ int, img *goquery.Selection) {
				record := models.VariantRecord{PropertyType: propertyType}
				record.OptionName = strings.TrimSpace(img.AttrOr("alt", ""))
				record.ImageURL = imageurl.Resolve(imageSrc(img))

				if record.OptionName == "" && record.ImageURL == "" {
					return
				}

				variants = append(variants, record)
				if record.ImageURL != "" && !seenImages[record.ImageURL] {
					seenImages[record.ImageURL] = true
					variantImages = append(variantImages, record.ImageURL)
				}
			})
		}

		for _, selector := range p.selectors.VariantText {
			group.Find(selector).Each(func(_ int, item *goquery.Selection) {
				name := strings.TrimSpace(item.AttrOr("title", ""))
				if name == "" {
					name = strings.TrimSpace(item.Find("span").First().Text())
				}
				if name == "" {
					name = strings.TrimSpace(item.Text())
				}
				if name == "" {
					return
				}

				variants = append(variants, models.VariantRecord{
					PropertyType: propertyType,
					OptionName:   name,
				})
			})
		}
	})

	if variants == nil {
		variants = []models.VariantRecord{}
	}
	if variantImages == nil {
		variantImages = []string{}
	}
	return variants, variantImages
}

func (p *AliexpressParser) groupTitle(group *goquery.Selection) string {
	for _, selector := range p.selectors.VariantTitle {
		if text := strings.TrimSpace(group.Find(selector).First().Text()); text != "" {
			// "Color: Red" -> "Color"
			if i := strings.Index(text, ":"); i >= 0 {
				text = strings.TrimSpace(text[:i])
			}
			return text
		}
	}
	return ""
}

func (p *AliexpressParser) findFirstMatching(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel
		}
	}
	return doc.Find(selectors[len(selectors)-1])
}

func (p *AliexpressParser) extractProductID(doc *goquery.Document, productURL string) string {
	for _, selector := range p.selectors.ProductID {
		sel := doc.Find(selector).First()
		for _, attr := range strings.Split(idAttrCandidates, ",") {
			if id := strings.TrimSpace(sel.AttrOr(attr, "")); id != "" {
				return id
			}
		}
	}

	if matches := itemIDPattern.FindStringSubmatch(productURL); len(matches) == 2 {
		return matches[1]
	}

	return fmt.Sprintf("ALI-%06d", rand.Intn(900000)+100000)
}

func imageSrc(sel *goquery.Selection) string {
	if src := strings.TrimSpace(sel.AttrOr("src", "")); src != "" {
		return src
	}
	return strings.TrimSpace(sel.AttrOr("data-src", ""))
}

// normalizeProductURL fixes relative and protocol-relative hrefs the way
// the search page emits them.
func normalizeProductURL(href string) string {
	var url string
	switch {
	case strings.HasPrefix(href, "//"):
		url = "https:" + href
	case strings.HasPrefix(href, "/"):
		url = catalogOrigin + href
	case strings.HasPrefix(href, "http"):
		url = href
	default:
		url = catalogOrigin + "/" + href
	}

	// Collapse accidental double slashes after the protocol.
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[:i+3] + strings.Replace(url[i+3:], "//", "/", 1)
	}

	return url
}
