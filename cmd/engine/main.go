package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"partscout-engine/internal/catalog"
	"partscout-engine/internal/config"
	"partscout-engine/internal/events"
	"partscout-engine/internal/fetch"
	"partscout-engine/internal/httpapi"
	"partscout-engine/internal/ingest"
	"partscout-engine/internal/scheduler"
	"partscout-engine/internal/scrape"
	"partscout-engine/internal/scrape/types"
	"partscout-engine/internal/store"
)

func main() {
	_ = godotenv.Load() // optional .env for local overrides

	dataDir := os.Getenv("PARTSCOUT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir: a second process would race the catalog DB
	// and double-crawl every retailer.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("data dir lock: %v", err)
	}
	if !locked {
		log.Fatalf("another engine already holds %s", lock.Path())
	}
	defer lock.Unlock()

	userCfgPath, err := config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal(err)
	}

	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	db, err := store.Open(filepath.Join(dataDir, "partscout.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	limiter := fetch.NewHostLimiter(cfg.Scrape.RequestsPerSec, cfg.Scrape.Burst)
	fc := fetch.New(fetch.Options{
		MaxRetries: cfg.Scrape.MaxRetries,
		Timeout:    time.Duration(cfg.Scrape.TimeoutSeconds) * time.Second,
		Limiter:    limiter,
	})

	buildAdapter := func(r config.Retailer) (types.Adapter, error) {
		return scrape.FromConfig(r, fc, types.Options{
			MaxPages:  cfg.Scrape.MaxPages,
			PageDelay: cfg.Scrape.PageDelayMS,
		})
	}

	merger := catalog.NewMerger(db)
	runner := ingest.NewRunner(db, merger)
	runner.OnJobDone = func(res ingest.Result) {
		typ := events.TypeJobCompleted
		if !res.Success {
			typ = events.TypeJobFailed
		}
		hub.Publish(events.Make(typ, res))
		if res.ItemsScraped > 0 {
			hub.Publish(events.Make(events.TypeCatalogChanged, map[string]any{"retailer": res.Retailer}))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go scheduler.Every(ctx, time.Duration(cfg.Scrape.IntervalMinutes)*time.Minute, "scrape", func(ctx context.Context) error {
		retailers := cfgVal.Load().(config.Config).EnabledRetailers()
		adapters := make([]types.Adapter, 0, len(retailers))
		for _, r := range retailers {
			a, err := buildAdapter(r)
			if err != nil {
				log.Printf("[scrape] %s: %v", r.ID, err)
				continue
			}
			adapters = append(adapters, a)
		}
		runner.RunAll(ctx, adapters)
		return nil
	})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:           db,
		Hub:          hub,
		CfgVal:       &cfgVal,
		Runner:       runner,
		BuildAdapter: buildAdapter,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (data=%s)", addr, dataDir)

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.Recover,
			httpapi.AccessLog,
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
