package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Strategy names accepted in retailers[].strategy.
const (
	StrategyPageshop   = "pageshop"   // HTML listing pages with a "next" link
	StrategyShopfront  = "shopfront"  // paged JSON product collection
	StrategyCatalogAPI = "catalogapi" // category-segmented paged JSON API
)

type Retailer struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Strategy string `yaml:"strategy"`
	BaseURL  string `yaml:"base_url"`
	Enabled  bool   `yaml:"enabled"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Scrape struct {
		IntervalMinutes int     `yaml:"interval_minutes"`
		MaxPages        int     `yaml:"max_pages"`
		PageDelayMS     int     `yaml:"page_delay_ms"`
		RequestsPerSec  float64 `yaml:"requests_per_sec"`
		Burst           int     `yaml:"burst"`
		MaxRetries      int     `yaml:"max_retries"`
		TimeoutSeconds  int     `yaml:"timeout_seconds"`
	} `yaml:"scrape"`

	Retailers []Retailer `yaml:"retailers"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// EnabledRetailers returns the retailers that should be crawled on the scheduled tick.
func (c Config) EnabledRetailers() []Retailer {
	var out []Retailer
	for _, r := range c.Retailers {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

func (c Config) RetailerByID(id string) (Retailer, bool) {
	for _, r := range c.Retailers {
		if r.ID == id {
			return r, true
		}
	}
	return Retailer{}, false
}
