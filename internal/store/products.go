package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"partscout-engine/internal/domain"
)

// FindProductByName is the cross-run identity rule: products match by exact
// equality on the cleaned name. Swapping in a different identity strategy
// (e.g. retailer-URL-scoped with a linking step) means replacing this lookup.
func FindProductByName(ctx context.Context, db *sql.DB, name string) (*domain.Product, error) {
	row := db.QueryRowContext(ctx, `
SELECT id, name, category, brand, model, description, image_url,
       lowest_price, highest_price, created_at, updated_at
FROM products
WHERE name = ?;`, name)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func InsertProduct(ctx context.Context, db *sql.DB, n domain.NormalizedListing) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := db.ExecContext(ctx, `
INSERT INTO products(name, category, brand, model, description, image_url,
                     lowest_price, highest_price, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?,?);`,
		n.Name, string(n.Category), n.Brand, n.Model, n.Description, n.ImageURL,
		n.Price, n.Price, now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateProductMeta refreshes the mutable descriptive fields on a
// re-sighting. Name and category are deliberately left alone so a later
// noisy scrape cannot clobber a stable classification.
func UpdateProductMeta(ctx context.Context, db *sql.DB, id int64, n domain.NormalizedListing) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.ExecContext(ctx, `
UPDATE products
SET brand = CASE WHEN ? != '' THEN ? ELSE brand END,
    model = CASE WHEN ? != '' THEN ? ELSE model END,
    description = CASE WHEN ? != '' THEN ? ELSE description END,
    image_url = CASE WHEN ? != '' THEN ? ELSE image_url END,
    updated_at = ?
WHERE id = ?;`,
		n.Brand, n.Brand, n.Model, n.Model,
		n.Description, n.Description, n.ImageURL, n.ImageURL,
		now, id,
	)
	return err
}

// RecomputePriceRange sets lowest/highest to the min/max price over the
// product's active listings. With zero active listings the stored range is
// left untouched rather than nulled out.
func RecomputePriceRange(ctx context.Context, db *sql.DB, productID int64) error {
	var lo, hi sql.NullFloat64
	err := db.QueryRowContext(ctx, `
SELECT MIN(price), MAX(price)
FROM product_listings
WHERE product_id = ? AND is_active = 1;`, productID).Scan(&lo, &hi)
	if err != nil {
		return err
	}
	if !lo.Valid || !hi.Valid {
		return nil
	}

	_, err = db.ExecContext(ctx, `
UPDATE products SET lowest_price = ?, highest_price = ?, updated_at = ?
WHERE id = ?;`,
		lo.Float64, hi.Float64, time.Now().UTC().Format(time.RFC3339), productID,
	)
	return err
}

type ListProductsOpts struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// ListProducts returns catalog products with their active listings attached.
func ListProducts(ctx context.Context, db *sql.DB, opts ListProductsOpts) ([]domain.Product, error) {
	if opts.Limit <= 0 || opts.Limit > 200 {
		opts.Limit = 50
	}

	var conds []string
	var args []any
	if opts.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, strings.ToUpper(opts.Category))
	}
	if opts.Search != "" {
		conds = append(conds, "name LIKE ?")
		args = append(args, "%"+opts.Search+"%")
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf(`
SELECT id, name, category, brand, model, description, image_url,
       lowest_price, highest_price, created_at, updated_at
FROM products
%s
ORDER BY name ASC
LIMIT ? OFFSET ?;`, where)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		ls, err := ActiveListings(ctx, db, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Listings = ls
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(r rowScanner) (*domain.Product, error) {
	var p domain.Product
	var cat, created, updated string
	if err := r.Scan(&p.ID, &p.Name, &cat, &p.Brand, &p.Model, &p.Description,
		&p.ImageURL, &p.LowestPrice, &p.HighestPrice, &created, &updated); err != nil {
		return nil, err
	}
	p.Category = domain.Category(cat)
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &p, nil
}
