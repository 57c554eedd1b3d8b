package httpapi

import (
	"database/sql"
	"sync/atomic"

	"partscout-engine/internal/config"
	"partscout-engine/internal/events"
	"partscout-engine/internal/ingest"
	"partscout-engine/internal/scrape/types"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// CfgVal stores config.Config so handlers always see the latest load.
	CfgVal *atomic.Value

	Runner *ingest.Runner

	// BuildAdapter constructs the adapter for a configured retailer
	// (injected so handler tests can substitute fakes).
	BuildAdapter func(r config.Retailer) (types.Adapter, error)
}
