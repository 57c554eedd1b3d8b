package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partscout-engine/internal/catalog"
	"partscout-engine/internal/config"
	"partscout-engine/internal/domain"
	"partscout-engine/internal/events"
	"partscout-engine/internal/ingest"
	"partscout-engine/internal/scrape/types"
	"partscout-engine/internal/store"
)

type stubAdapter struct {
	retailer string
	items    []domain.RawListing
	started  chan struct{}
	block    chan struct{}
}

func (s *stubAdapter) Retailer() string { return s.retailer }

func (s *stubAdapter) Crawl(ctx context.Context, emit types.Emit) error {
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	for _, it := range s.items {
		if err := emit(it); err != nil {
			return err
		}
	}
	return nil
}

func testDeps(t *testing.T, adapters map[string]*stubAdapter) (Deps, *sql.DB) {
	t.Helper()

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))

	var cfg config.Config
	cfg.App.Port = 8090
	for id := range adapters {
		cfg.Retailers = append(cfg.Retailers, config.Retailer{
			ID: id, Name: id, Strategy: config.StrategyPageshop,
			BaseURL: "https://example.ph", Enabled: true,
		})
	}

	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	runner := ingest.NewRunner(db, catalog.NewMerger(db))

	return Deps{
		DB:     db,
		Hub:    events.NewHub(),
		CfgVal: &cfgVal,
		Runner: runner,
		BuildAdapter: func(r config.Retailer) (types.Adapter, error) {
			return adapters[r.ID], nil
		},
	}, db
}

func TestProductsEndpoint(t *testing.T) {
	deps, db := testDeps(t, nil)

	m := catalog.NewMerger(db)
	_, _, err := m.Merge(context.Background(), domain.NormalizedListing{
		Name: "AMD Ryzen 5 5600", Category: domain.CategoryCPU,
		Price: 6495, URL: "https://example.ph/p/1", StockStatus: domain.StockIn,
	}, "easypc")
	require.NoError(t, err)

	srv := httptest.NewServer(NewMux(deps))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/products?category=CPU")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Products []domain.Product `json:"products"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "AMD Ryzen 5 5600", body.Products[0].Name)
	require.Len(t, body.Products[0].Listings, 1)
}

func TestScrapeRunTriggersJob(t *testing.T) {
	a := &stubAdapter{retailer: "easypc", items: []domain.RawListing{
		{Name: "AMD Ryzen 5 5600 Processor", Price: 6495, URL: "https://example.ph/p/1", InStock: true},
	}}
	deps, db := testDeps(t, map[string]*stubAdapter{"easypc": a})

	srv := httptest.NewServer(NewMux(deps))
	defer srv.Close()

	res, err := http.Post(srv.URL+"/scrape/run", "application/json",
		strings.NewReader(`{"retailer":"easypc"}`))
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusAccepted, res.StatusCode)

	require.Eventually(t, func() bool {
		jobs, err := store.ListJobs(context.Background(), db, "easypc", 10)
		return err == nil && len(jobs) == 1 && jobs[0].Status == domain.JobCompleted
	}, 2*time.Second, 10*time.Millisecond)

	jobs, err := store.ListJobs(context.Background(), db, "easypc", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, jobs[0].ItemsScraped)
}

func TestScrapeRunConflictsWhileRunning(t *testing.T) {
	a := &stubAdapter{
		retailer: "easypc",
		started:  make(chan struct{}),
		block:    make(chan struct{}),
	}
	deps, _ := testDeps(t, map[string]*stubAdapter{"easypc": a})

	srv := httptest.NewServer(NewMux(deps))
	defer srv.Close()

	res, err := http.Post(srv.URL+"/scrape/run", "application/json",
		strings.NewReader(`{"retailer":"easypc"}`))
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusAccepted, res.StatusCode)

	<-a.started

	res, err = http.Post(srv.URL+"/scrape/run", "application/json",
		strings.NewReader(`{"retailer":"easypc"}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// status reflects the in-flight run
	sres, err := http.Get(srv.URL + "/scrape/status")
	require.NoError(t, err)
	defer sres.Body.Close()
	var status struct {
		Running map[string]bool `json:"running"`
	}
	require.NoError(t, json.NewDecoder(sres.Body).Decode(&status))
	assert.True(t, status.Running["easypc"])

	close(a.block)
}

func TestScrapeRunUnknownRetailer(t *testing.T) {
	deps, _ := testDeps(t, nil)

	srv := httptest.NewServer(NewMux(deps))
	defer srv.Close()

	res, err := http.Post(srv.URL+"/scrape/run", "application/json",
		strings.NewReader(`{"retailer":"nope"}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHealth(t *testing.T) {
	deps, _ := testDeps(t, nil)
	srv := httptest.NewServer(NewMux(deps))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		OK bool   `json:"ok"`
		DB string `json:"db"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.True(t, body.OK)
	assert.Equal(t, "ok", body.DB)
}
