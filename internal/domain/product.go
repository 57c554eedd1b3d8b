package domain

import "time"

// Product is the canonical catalog entity. Name is the matching key across
// retailers and runs; LowestPrice/HighestPrice are the min/max over the
// product's currently-active listings.
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Category     Category  `json:"category"`
	Brand        string    `json:"brand,omitempty"`
	Model        string    `json:"model,omitempty"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	LowestPrice  float64   `json:"lowestPrice"`
	HighestPrice float64   `json:"highestPrice"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Listings []ProductListing `json:"listings,omitempty"`
}

// ProductListing is one retailer's offer for a product; unique per
// (ProductID, Retailer). IsActive is a soft-delete flag toggled by the
// staleness sweep, not by the merger.
type ProductListing struct {
	ID          int64       `json:"id"`
	ProductID   int64       `json:"productId"`
	Retailer    string      `json:"retailer"`
	RetailerURL string      `json:"retailerUrl"`
	Price       float64     `json:"price"`
	StockStatus StockStatus `json:"stockStatus"`
	IsActive    bool        `json:"isActive"`
	LastScraped time.Time   `json:"lastScraped"`
}

type JobStatus string

const (
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// ScrapeJob records one ingestion run for one retailer. Rows are never
// mutated after completion.
type ScrapeJob struct {
	ID           int64      `json:"id"`
	Retailer     string     `json:"retailer"`
	Status       JobStatus  `json:"status"`
	ItemsScraped int        `json:"itemsScraped"`
	ItemsUpdated int        `json:"itemsUpdated"`
	ItemsFailed  int        `json:"itemsFailed"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}
