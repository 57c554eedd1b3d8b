// Package shopfront crawls storefronts that expose their catalog as a paged
// JSON product collection (GET {base}/products.json?limit=N&page=M). The API
// never reports a last page, and items near the tail reappear under later
// page indices, so the only reliable end-of-catalog signal is a run of pages
// that contain nothing new.
package shopfront

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"partscout-engine/internal/classify"
	"partscout-engine/internal/domain"
	"partscout-engine/internal/fetch"
	"partscout-engine/internal/scrape/types"
)

const (
	pageSize = 250
	// stop after this many consecutive pages that yield zero new items
	maxStalePages = 3
)

type Config struct {
	Retailer string
	BaseURL  string // storefront origin
}

type Scraper struct {
	cfg  Config
	fc   *fetch.Client
	opts types.Options
}

func New(cfg Config, fc *fetch.Client, opts types.Options) *Scraper {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 200
	}
	return &Scraper{cfg: cfg, fc: fc, opts: opts}
}

func (s *Scraper) Retailer() string { return s.cfg.Retailer }

type product struct {
	Title    string    `json:"title"`
	Handle   string    `json:"handle"`
	Vendor   string    `json:"vendor"`
	Type     string    `json:"product_type"`
	Variants []variant `json:"variants"`
	Images   []image   `json:"images"`
}

type variant struct {
	Price     string `json:"price"`
	Available bool   `json:"available"`
}

type image struct {
	Src string `json:"src"`
}

type collection struct {
	Products []product `json:"products"`
}

func (s *Scraper) Crawl(ctx context.Context, emit types.Emit) error {
	base := strings.TrimRight(s.cfg.BaseURL, "/")

	// run-global: the same product can reappear under different page indices
	seen := map[string]bool{}
	stale := 0

	for page := 1; page <= s.opts.MaxPages; page++ {
		u := fmt.Sprintf("%s/products.json?limit=%d&page=%d", base, pageSize, page)

		body, err := s.fc.Get(ctx, u)
		if err != nil {
			return fmt.Errorf("shopfront %s page %d: %w", s.cfg.Retailer, page, err)
		}

		var col collection
		if err := json.Unmarshal(body, &col); err != nil {
			return fmt.Errorf("shopfront %s decode page %d: %w", s.cfg.Retailer, page, err)
		}

		fresh := 0
		for _, p := range col.Products {
			raw, ok := s.toRaw(p, base)
			if !ok {
				continue
			}
			if seen[raw.URL] {
				continue
			}
			seen[raw.URL] = true
			fresh++

			if err := emit(raw); err != nil {
				return err
			}
		}

		if fresh == 0 {
			stale++
			if stale >= maxStalePages {
				log.Printf("[scrape:shopfront] %s: %d all-duplicate pages, stopping at page %d",
					s.cfg.Retailer, stale, page)
				return nil
			}
			continue
		}
		stale = 0
	}
	return nil
}

// toRaw keeps only products with at least one purchasable variant and maps
// the first such variant's price.
func (s *Scraper) toRaw(p product, base string) (domain.RawListing, bool) {
	title := strings.TrimSpace(p.Title)
	handle := strings.TrimSpace(p.Handle)
	if title == "" || handle == "" {
		return domain.RawListing{}, false
	}

	var price float64
	purchasable := false
	for _, v := range p.Variants {
		if !v.Available {
			continue
		}
		purchasable = true
		price = classify.ParsePrice(v.Price)
		break
	}
	if !purchasable {
		return domain.RawListing{}, false
	}

	img := ""
	if len(p.Images) > 0 {
		img = strings.TrimSpace(p.Images[0].Src)
	}

	return domain.RawListing{
		Name:         title,
		Price:        price,
		URL:          base + "/products/" + handle,
		ImageURL:     img,
		BrandHint:    strings.TrimSpace(p.Vendor),
		CategoryHint: strings.TrimSpace(p.Type),
		InStock:      true,
	}, true
}
