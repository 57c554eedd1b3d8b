package domain

// RawListing is what a source adapter pulls off a single catalog page. It
// lives only for the duration of a crawl; never persisted directly.
type RawListing struct {
	Name         string
	Price        float64
	URL          string
	ImageURL     string
	BrandHint    string
	CategoryHint string
	InStock      bool
}

// NormalizedListing is the classifier's output: a RawListing mapped into the
// canonical taxonomy with a cleaned name and a parsed price.
type NormalizedListing struct {
	Name        string
	Category    Category
	Brand       string
	Model       string
	Description string
	ImageURL    string
	Price       float64
	URL         string
	StockStatus StockStatus
}
