package config

import (
	"errors"
	"fmt"
	"strings"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if cfg.Scrape.IntervalMinutes <= 0 {
		errs = append(errs, "scrape.interval_minutes must be > 0")
	}
	if cfg.Scrape.MaxPages <= 0 {
		errs = append(errs, "scrape.max_pages must be > 0")
	}
	if cfg.Scrape.RequestsPerSec <= 0 {
		errs = append(errs, "scrape.requests_per_sec must be > 0")
	}
	if cfg.Scrape.MaxRetries <= 0 {
		errs = append(errs, "scrape.max_retries must be > 0")
	}
	if cfg.Scrape.TimeoutSeconds <= 0 {
		errs = append(errs, "scrape.timeout_seconds must be > 0")
	}

	seen := map[string]bool{}
	for i, r := range cfg.Retailers {
		if strings.TrimSpace(r.ID) == "" {
			errs = append(errs, fmt.Sprintf("retailers[%d].id is required", i))
		}
		if seen[r.ID] {
			errs = append(errs, fmt.Sprintf("retailers[%d].id %q is duplicated", i, r.ID))
		}
		seen[r.ID] = true
		switch r.Strategy {
		case StrategyPageshop, StrategyShopfront, StrategyCatalogAPI:
		default:
			errs = append(errs, fmt.Sprintf("retailers[%d].strategy %q is not a known strategy", i, r.Strategy))
		}
		if strings.TrimSpace(r.BaseURL) == "" {
			errs = append(errs, fmt.Sprintf("retailers[%d].base_url is required", i))
		}
	}

	if len(errs) > 0 {
		return errors.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}
