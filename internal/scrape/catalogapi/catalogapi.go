// Package catalogapi crawls catalog APIs that are segmented by a category
// query parameter. The source's own category metadata is inconsistent, so
// each item is tagged with the canonical category of the query that produced
// it, never with anything read off the item. Some canonical categories fan
// out over several source queries (e.g. HDD and SSD both land in STORAGE).
package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"

	"partscout-engine/internal/domain"
	"partscout-engine/internal/fetch"
	"partscout-engine/internal/scrape/types"
)

const pageSize = 100

type Config struct {
	Retailer string
	BaseURL  string // API origin; /api/ecomm/products is appended
}

type Scraper struct {
	cfg  Config
	fc   *fetch.Client
	opts types.Options
}

func New(cfg Config, fc *fetch.Client, opts types.Options) *Scraper {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 30
	}
	return &Scraper{cfg: cfg, fc: fc, opts: opts}
}

func (s *Scraper) Retailer() string { return s.cfg.Retailer }

// query pairs one source category slug with the canonical category its items
// belong to. The slugs are fixed facts about the source, not configuration.
type query struct {
	slug     string
	category domain.Category
}

var queries = []query{
	{"cpu", domain.CategoryCPU},
	{"gpu", domain.CategoryGPU},
	{"motherboard", domain.CategoryMotherboard},
	{"ram", domain.CategoryRAM},
	{"ssd", domain.CategoryStorage},
	{"hdd", domain.CategoryStorage},
	{"psu", domain.CategoryPSU},
	{"case", domain.CategoryCase},
	{"cpu-cooler", domain.CategoryCPUCooler},
	{"aio", domain.CategoryCPUCooler},
	{"fan", domain.CategoryCaseFan},
	{"monitor", domain.CategoryMonitor},
	{"keyboard", domain.CategoryPeripheral},
	{"mouse", domain.CategoryPeripheral},
	{"accessories", domain.CategoryAccessory},
}

type item struct {
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Slug          string  `json:"slug"`
	ImageURL      string  `json:"img_url"`
	Price         float64 `json:"amount"`
	DiscountPrice float64 `json:"discounted_amount"`
	SalePrice     float64 `json:"sale_amount"`
	StockOnHand   int     `json:"stocks_left"`
}

type page struct {
	Data struct {
		Products []item `json:"products"`
	} `json:"data"`
}

func (s *Scraper) Crawl(ctx context.Context, emit types.Emit) error {
	base := strings.TrimRight(s.cfg.BaseURL, "/")

	for _, q := range queries {
		if err := s.crawlQuery(ctx, base, q, emit); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scraper) crawlQuery(ctx context.Context, base string, q query, emit types.Emit) error {
	for pageNo := 1; pageNo <= s.opts.MaxPages; pageNo++ {
		u := fmt.Sprintf("%s/api/ecomm/products?category=%s&page=%d&limit=%d",
			base, url.QueryEscape(q.slug), pageNo, pageSize)

		body, err := s.fc.Get(ctx, u)
		if err != nil {
			return fmt.Errorf("catalogapi %s category %s page %d: %w", s.cfg.Retailer, q.slug, pageNo, err)
		}

		var pg page
		if err := json.Unmarshal(body, &pg); err != nil {
			return fmt.Errorf("catalogapi %s decode category %s page %d: %w", s.cfg.Retailer, q.slug, pageNo, err)
		}

		items := pg.Data.Products
		if len(items) == 0 {
			return nil
		}

		for _, it := range items {
			name := strings.TrimSpace(it.Name)
			if name == "" {
				log.Printf("[scrape:catalogapi] %s category %s: unnamed item, skipped", s.cfg.Retailer, q.slug)
				continue
			}

			raw := domain.RawListing{
				Name:         name,
				Price:        bestPrice(it),
				URL:          base + "/product/" + strings.TrimSpace(it.Slug),
				ImageURL:     strings.TrimSpace(it.ImageURL),
				BrandHint:    strings.TrimSpace(it.Brand),
				CategoryHint: string(q.category),
				InStock:      it.StockOnHand > 0,
			}
			if err := emit(raw); err != nil {
				return err
			}
		}

		// a short page means this query is exhausted
		if len(items) < pageSize {
			return nil
		}
	}
	return nil
}

// bestPrice reads the first usable value from the source's assorted price
// fields, discounted prices ahead of the list price.
func bestPrice(it item) float64 {
	for _, v := range []float64{it.DiscountPrice, it.SalePrice, it.Price} {
		if v > 0 {
			return v
		}
	}
	return 0
}
