package store

import (
	"context"
	"database/sql"
	"time"

	"partscout-engine/internal/domain"
)

// UpsertListing creates the (product, retailer) listing on first sighting and
// refreshes url/price/stock/last_scraped on every later one. It never touches
// is_active: the staleness sweep owns that flag.
func UpsertListing(ctx context.Context, db *sql.DB, productID int64, retailer string, n domain.NormalizedListing) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.ExecContext(ctx, `
INSERT INTO product_listings(product_id, retailer, retailer_url, price, stock_status, is_active, last_scraped)
VALUES(?,?,?,?,?,1,?)
ON CONFLICT(product_id, retailer) DO UPDATE SET
  retailer_url = excluded.retailer_url,
  price = excluded.price,
  stock_status = excluded.stock_status,
  last_scraped = excluded.last_scraped;`,
		productID, retailer, n.URL, n.Price, string(n.StockStatus), now,
	)
	return err
}

// DeactivateListing is the staleness sweep's entry point: it soft-deletes a
// retailer's listing so range recomputes stop counting it.
func DeactivateListing(ctx context.Context, db *sql.DB, productID int64, retailer string) error {
	_, err := db.ExecContext(ctx, `
UPDATE product_listings SET is_active = 0
WHERE product_id = ? AND retailer = ?;`, productID, retailer)
	return err
}

func ActiveListings(ctx context.Context, db *sql.DB, productID int64) ([]domain.ProductListing, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, product_id, retailer, retailer_url, price, stock_status, is_active, last_scraped
FROM product_listings
WHERE product_id = ? AND is_active = 1
ORDER BY price ASC;`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProductListing
	for rows.Next() {
		var l domain.ProductListing
		var status, scraped string
		var active int
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Retailer, &l.RetailerURL,
			&l.Price, &status, &active, &scraped); err != nil {
			return nil, err
		}
		l.StockStatus = domain.StockStatus(status)
		l.IsActive = active == 1
		l.LastScraped, _ = time.Parse(time.RFC3339, scraped)
		out = append(out, l)
	}
	return out, rows.Err()
}
