package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"

	"partscout-engine/internal/config"
	"partscout-engine/internal/ingest"
	"partscout-engine/internal/scrape/types"
)

type ScrapeHandler struct {
	CfgVal       *atomic.Value
	Runner       *ingest.Runner
	BuildAdapter func(r config.Retailer) (types.Adapter, error)
}

type runRequest struct {
	Retailer string `json:"retailer"` // empty means all enabled retailers
}

// Run serves POST /scrape/run. Jobs run in the background; the response just
// acknowledges the trigger. A second run for a retailer already in flight is
// rejected with 409.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // empty body means "all"
	}

	cfg := h.CfgVal.Load().(config.Config)

	var targets []config.Retailer
	if req.Retailer != "" {
		rt, ok := cfg.RetailerByID(req.Retailer)
		if !ok {
			WriteError(w, r, http.StatusNotFound, "unknown_retailer", "no retailer with id "+req.Retailer)
			return
		}
		if h.Runner.Running(rt.ID) {
			WriteError(w, r, http.StatusConflict, "job_running", ingest.ErrJobRunning.Error())
			return
		}
		targets = []config.Retailer{rt}
	} else {
		targets = cfg.EnabledRetailers()
		if len(targets) == 0 {
			WriteError(w, r, http.StatusBadRequest, "no_retailers", "no retailers enabled")
			return
		}
	}

	var adapters []types.Adapter
	for _, rt := range targets {
		a, err := h.BuildAdapter(rt)
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "adapter_error", err.Error())
			return
		}
		adapters = append(adapters, a)
	}

	go func() {
		for _, res := range h.Runner.RunAll(context.Background(), adapters) {
			if !res.Success {
				log.Printf("[httpapi] scrape %s did not complete: %s", res.Retailer, res.Error)
			}
		}
	}()

	ids := make([]string, 0, len(targets))
	for _, rt := range targets {
		ids = append(ids, rt.ID)
	}
	WriteJSON(w, http.StatusAccepted, map[string]any{"started": ids})
}

// Status serves GET /scrape/status: which retailers are currently mid-run.
func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)

	statuses := map[string]bool{}
	for _, rt := range cfg.Retailers {
		statuses[rt.ID] = h.Runner.Running(rt.ID)
	}
	WriteJSON(w, http.StatusOK, map[string]any{"running": statuses})
}
