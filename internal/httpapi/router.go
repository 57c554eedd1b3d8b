package httpapi

import "net/http"

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Catalog reads
	ph := ProductsHandler{DB: d.DB}
	mux.HandleFunc("/products", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.List,
	}))

	// Scrape job history
	jh := JobsHandler{DB: d.DB}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))

	// Scrape trigger + status
	sch := ScrapeHandler{
		CfgVal:       d.CfgVal,
		Runner:       d.Runner,
		BuildAdapter: d.BuildAdapter,
	}
	mux.HandleFunc("/scrape/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Run,
	}))
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	hh := HealthHandler{DB: d.DB}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
