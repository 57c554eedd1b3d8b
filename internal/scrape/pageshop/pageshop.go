// Package pageshop crawls retailers that render their catalog as plain HTML
// listing pages with a "next page" link. Pagination ends when a page has no
// listing blocks or no next link, whichever comes first.
package pageshop

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"partscout-engine/internal/classify"
	"partscout-engine/internal/domain"
	"partscout-engine/internal/fetch"
	"partscout-engine/internal/scrape/types"
)

type Config struct {
	Retailer string
	BaseURL  string // collection URL; ?page=N is appended
}

type Scraper struct {
	cfg   Config
	fc    *fetch.Client
	opts  types.Options
	delay time.Duration
}

func New(cfg Config, fc *fetch.Client, opts types.Options) *Scraper {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 50
	}
	if opts.PageDelay <= 0 {
		opts.PageDelay = 1000
	}
	delay := time.Duration(opts.PageDelay) * time.Millisecond
	return &Scraper{cfg: cfg, fc: fc, opts: opts, delay: delay}
}

func (s *Scraper) Retailer() string { return s.cfg.Retailer }

// imageAttrs is the ordered list of attributes a listing image may hide
// behind, lazy-loading variants first.
var imageAttrs = []string{"data-src", "data-srcset", "data-original", "src"}

func (s *Scraper) Crawl(ctx context.Context, emit types.Emit) error {
	for page := 1; page <= s.opts.MaxPages; page++ {
		pageURL := fmt.Sprintf("%s?page=%d", s.cfg.BaseURL, page)

		body, err := s.fc.Get(ctx, pageURL)
		if err != nil {
			return fmt.Errorf("pageshop %s page %d: %w", s.cfg.Retailer, page, err)
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			// a whole page that won't parse means the markup changed shape;
			// that is fatal for this source's run
			return fmt.Errorf("pageshop %s parse page %d: %w", s.cfg.Retailer, page, err)
		}

		blocks := doc.Find(".product-item, .product-card, li.product")
		if blocks.Length() == 0 {
			// end of catalog, not an error
			return nil
		}

		var emitErr error
		blocks.EachWithBreak(func(_ int, block *goquery.Selection) bool {
			raw, ok := s.extract(block, page)
			if !ok {
				return true // malformed block: logged, skipped, page continues
			}
			if err := emit(raw); err != nil {
				emitErr = err
				return false
			}
			return true
		})
		if emitErr != nil {
			return emitErr
		}

		if doc.Find("a.next, .pagination a[rel='next'], a[rel='next']").Length() == 0 {
			return nil
		}

		// fixed inter-page delay keeps the request rate polite
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return nil
}

func (s *Scraper) extract(block *goquery.Selection, page int) (domain.RawListing, bool) {
	name := cleanText(block.Find(".product-title, .product-item__title, h2, h3").First().Text())
	if name == "" {
		log.Printf("[scrape:pageshop] %s page %d: block missing title, skipped", s.cfg.Retailer, page)
		return domain.RawListing{}, false
	}

	href, _ := block.Find("a[href]").First().Attr("href")
	href = strings.TrimSpace(href)
	if href == "" {
		log.Printf("[scrape:pageshop] %s page %d: %q has no link, skipped", s.cfg.Retailer, page, name)
		return domain.RawListing{}, false
	}
	if strings.HasPrefix(href, "/") {
		href = origin(s.cfg.BaseURL) + href
	}

	// price text may encode a range "₱A – ₱B"; the parser keeps the first
	priceText := cleanText(block.Find(".price, .product-price, .money").First().Text())
	price := classify.ParsePrice(priceText)

	img := ""
	if sel := block.Find("img").First(); sel.Length() > 0 {
		for _, attr := range imageAttrs {
			if v, ok := sel.Attr(attr); ok && strings.TrimSpace(v) != "" {
				img = strings.TrimSpace(v)
				break
			}
		}
	}

	blockText := strings.ToLower(block.Text())
	inStock := !strings.Contains(blockText, "out of stock") &&
		!strings.Contains(blockText, "sold out")

	return domain.RawListing{
		Name:     name,
		Price:    price,
		URL:      href,
		ImageURL: img,
		InStock:  inStock,
	}, true
}

func origin(base string) string {
	// scheme://host of the collection URL, for absolutizing hrefs
	if i := strings.Index(base, "://"); i >= 0 {
		if j := strings.Index(base[i+3:], "/"); j >= 0 {
			return base[:i+3+j]
		}
	}
	return base
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
