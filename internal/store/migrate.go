package store

import "database/sql"

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  category TEXT NOT NULL,
  brand TEXT NOT NULL DEFAULT '',
  model TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  lowest_price REAL NOT NULL DEFAULT 0,
  highest_price REAL NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS product_listings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id),
  retailer TEXT NOT NULL,
  retailer_url TEXT NOT NULL,
  price REAL NOT NULL,
  stock_status TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_scraped TEXT NOT NULL,
  UNIQUE(product_id, retailer)
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS scrape_jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  retailer TEXT NOT NULL,
  status TEXT NOT NULL,
  items_scraped INTEGER NOT NULL DEFAULT 0,
  items_updated INTEGER NOT NULL DEFAULT 0,
  items_failed INTEGER NOT NULL DEFAULT 0,
  error TEXT NOT NULL DEFAULT '',
  started_at TEXT NOT NULL,
  completed_at TEXT
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`); err != nil {
		return err
	}
	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_listings_product ON product_listings(product_id);
`); err != nil {
		return err
	}
	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jobs_retailer ON scrape_jobs(retailer, started_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
