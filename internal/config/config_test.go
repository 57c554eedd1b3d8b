package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	var cfg Config
	cfg.App.Port = 8090
	cfg.Scrape.IntervalMinutes = 180
	cfg.Scrape.MaxPages = 50
	cfg.Scrape.RequestsPerSec = 2
	cfg.Scrape.MaxRetries = 3
	cfg.Scrape.TimeoutSeconds = 30
	cfg.Retailers = []Retailer{
		{ID: "easypc", Name: "EasyPC", Strategy: StrategyPageshop, BaseURL: "https://easypc.com.ph", Enabled: true},
		{ID: "pcworth", Name: "PC Worth", Strategy: StrategyCatalogAPI, BaseURL: "https://pcworth.com", Enabled: false},
	}
	return cfg
}

func TestValidateOK(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidateCatchesBadConfig(t *testing.T) {
	cfg := validConfig()
	cfg.App.Port = 0
	cfg.Retailers[0].Strategy = "carrier-pigeon"
	cfg.Retailers = append(cfg.Retailers, cfg.Retailers[0])

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.port")
	assert.Contains(t, err.Error(), "strategy")
	assert.Contains(t, err.Error(), "duplicated")
}

func TestEnabledRetailers(t *testing.T) {
	cfg := validConfig()
	enabled := cfg.EnabledRetailers()
	require.Len(t, enabled, 1)
	assert.Equal(t, "easypc", enabled[0].ID)

	_, ok := cfg.RetailerByID("pcworth")
	assert.True(t, ok)
	_, ok = cfg.RetailerByID("nope")
	assert.False(t, ok)
}

func TestLoadAndBootstrap(t *testing.T) {
	dir := t.TempDir()

	defaultPath := filepath.Join(dir, "default.yml")
	require.NoError(t, os.WriteFile(defaultPath, []byte(`
app:
  port: 8090
scrape:
  interval_minutes: 60
  max_pages: 10
  requests_per_sec: 1
  max_retries: 3
  timeout_seconds: 30
retailers:
  - id: easypc
    name: EasyPC
    strategy: pageshop
    base_url: https://easypc.com.ph
    enabled: true
`), 0o644))

	userPath, err := EnsureUserConfig(dir, defaultPath)
	require.NoError(t, err)

	cfg, err := Load(userPath)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	assert.Equal(t, 8090, cfg.App.Port)
	require.Len(t, cfg.Retailers, 1)
	assert.Equal(t, StrategyPageshop, cfg.Retailers[0].Strategy)

	// second call reuses the existing user config
	again, err := EnsureUserConfig(dir, "does-not-matter")
	require.NoError(t, err)
	assert.Equal(t, userPath, again)
}
