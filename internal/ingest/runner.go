// Package ingest runs scrape jobs: one adapter's full crawl, every raw
// record through the normalizer and the merger, with a durable ScrapeJob row
// tracking the outcome.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"partscout-engine/internal/catalog"
	"partscout-engine/internal/classify"
	"partscout-engine/internal/domain"
	"partscout-engine/internal/scrape/types"
	"partscout-engine/internal/store"
)

// ErrJobRunning means a run for this retailer is already in flight. Two
// overlapping runs of the same source are rejected, not queued.
var ErrJobRunning = errors.New("a scrape job for this retailer is already running")

type Result struct {
	Success      bool   `json:"success"`
	Retailer     string `json:"retailer"`
	JobID        int64  `json:"jobId"`
	ItemsScraped int    `json:"itemsScraped"`
	ItemsUpdated int    `json:"itemsUpdated"`
	ItemsFailed  int    `json:"itemsFailed"`
	Error        string `json:"error,omitempty"`
}

type Runner struct {
	db     *sql.DB
	merger *catalog.Merger

	mu      sync.Mutex
	running map[string]bool

	// OnJobDone, when set, is called after every finished job (event hub).
	OnJobDone func(Result)
}

func NewRunner(db *sql.DB, merger *catalog.Merger) *Runner {
	return &Runner{db: db, merger: merger, running: make(map[string]bool)}
}

func (r *Runner) Running(retailer string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running[retailer]
}

func (r *Runner) acquire(retailer string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running[retailer] {
		return false
	}
	r.running[retailer] = true
	return true
}

func (r *Runner) release(retailer string) {
	r.mu.Lock()
	delete(r.running, retailer)
	r.mu.Unlock()
}

// Run executes one scrape job for one adapter. Item-level failures
// (normalize/merge trouble for a single record) are counted and skipped; an
// error from the adapter's page walk is fatal: the job row is marked failed
// with the counts accumulated so far and the error propagates.
func (r *Runner) Run(ctx context.Context, a types.Adapter) (Result, error) {
	retailer := a.Retailer()

	if !r.acquire(retailer) {
		return Result{Retailer: retailer, Error: ErrJobRunning.Error()}, ErrJobRunning
	}
	defer r.release(retailer)

	jobID, err := store.InsertJob(ctx, r.db, retailer)
	if err != nil {
		return Result{Retailer: retailer}, fmt.Errorf("ingest %s: create job: %w", retailer, err)
	}

	log.Printf("[ingest] %s: job %d running", retailer, jobID)

	var scraped, updated, failed int

	crawlErr := a.Crawl(ctx, func(raw domain.RawListing) error {
		n := classify.Normalize(raw)

		if n.Name == "" || n.Price <= 0 {
			failed++
			log.Printf("[ingest] %s: unusable record name=%q price=%v url=%q",
				retailer, raw.Name, raw.Price, raw.URL)
			return nil
		}

		_, created, err := r.merger.Merge(ctx, n, retailer)
		if err != nil {
			failed++
			log.Printf("[ingest] %s: merge failed for %q: %v", retailer, n.Name, err)
			return nil
		}

		scraped++
		if !created {
			updated++
		}
		return nil
	})

	res := Result{
		Retailer:     retailer,
		JobID:        jobID,
		ItemsScraped: scraped,
		ItemsUpdated: updated,
		ItemsFailed:  failed,
	}

	if crawlErr != nil {
		res.Error = crawlErr.Error()
		if err := store.FinishJob(ctx, r.db, jobID, domain.JobFailed, scraped, updated, failed, crawlErr.Error()); err != nil {
			log.Printf("[ingest] %s: marking job %d failed: %v", retailer, jobID, err)
		}
		log.Printf("[ingest] %s: job %d failed after %d items: %v", retailer, jobID, scraped, crawlErr)
		r.notify(res)
		return res, crawlErr
	}

	res.Success = true
	if err := store.FinishJob(ctx, r.db, jobID, domain.JobCompleted, scraped, updated, failed, ""); err != nil {
		return res, fmt.Errorf("ingest %s: complete job %d: %w", retailer, jobID, err)
	}
	log.Printf("[ingest] %s: job %d completed scraped=%d updated=%d failed=%d",
		retailer, jobID, scraped, updated, failed)
	r.notify(res)
	return res, nil
}

// RunAll runs one job per adapter concurrently and keeps going past
// individual retailer failures. Results come back in adapter order.
func (r *Runner) RunAll(ctx context.Context, adapters []types.Adapter) []Result {
	results := make([]Result, len(adapters))

	var g errgroup.Group
	for i, a := range adapters {
		i, a := i, a
		g.Go(func() error {
			res, err := r.Run(ctx, a)
			if err != nil {
				log.Printf("[ingest] %s: %v", a.Retailer(), err)
			}
			results[i] = res
			return nil // best-effort: don't cancel siblings
		})
	}
	_ = g.Wait()

	return results
}

func (r *Runner) notify(res Result) {
	if r.OnJobDone != nil {
		r.OnJobDone(res)
	}
}
