package types

import (
	"context"

	"partscout-engine/internal/domain"
)

// Emit receives one raw listing during a crawl. A non-nil return aborts the
// walk and propagates out of Crawl.
type Emit func(domain.RawListing) error

// Adapter walks one retailer's catalog. Crawl returns nil on end-of-catalog;
// any error it returns is fatal to that retailer's run. Item-level trouble
// (one malformed record) is the adapter's to log and skip, not to return.
type Adapter interface {
	Retailer() string
	Crawl(ctx context.Context, emit Emit) error
}

// Options carries the crawl knobs shared by every strategy.
type Options struct {
	MaxPages  int
	PageDelay int // milliseconds between HTML pages
}
