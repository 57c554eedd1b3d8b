// Package scrape builds source adapters from retailer configuration.
// Adapters own no durable state: each one walks its source's pagination and
// streams RawListings to the caller. The Adapter contract lives in
// scrape/types.
package scrape

import (
	"fmt"

	"partscout-engine/internal/config"
	"partscout-engine/internal/fetch"
	"partscout-engine/internal/scrape/catalogapi"
	"partscout-engine/internal/scrape/pageshop"
	"partscout-engine/internal/scrape/shopfront"
	"partscout-engine/internal/scrape/types"
)

// FromConfig builds the adapter for one configured retailer.
func FromConfig(r config.Retailer, fc *fetch.Client, opts types.Options) (types.Adapter, error) {
	switch r.Strategy {
	case config.StrategyPageshop:
		return pageshop.New(pageshop.Config{
			Retailer: r.ID,
			BaseURL:  r.BaseURL,
		}, fc, opts), nil
	case config.StrategyShopfront:
		return shopfront.New(shopfront.Config{
			Retailer: r.ID,
			BaseURL:  r.BaseURL,
		}, fc, opts), nil
	case config.StrategyCatalogAPI:
		return catalogapi.New(catalogapi.Config{
			Retailer: r.ID,
			BaseURL:  r.BaseURL,
		}, fc, opts), nil
	default:
		return nil, fmt.Errorf("retailer %q: unknown strategy %q", r.ID, r.Strategy)
	}
}
