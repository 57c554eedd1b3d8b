// Package catalog merges normalized listings into the shared product
// catalog. The merger is the only writer of products, listings, and the
// price-range aggregates.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"

	"partscout-engine/internal/domain"
	"partscout-engine/internal/store"
)

// lockShards bounds the lock table: names hash onto a fixed set of mutexes
// instead of one mutex per name ever merged, so memory stays flat however
// large the catalog grows. A collision serializes two unrelated products,
// which only costs a moment of parallelism.
const lockShards = 64

type Merger struct {
	db    *sql.DB
	locks [lockShards]sync.Mutex
}

func NewMerger(db *sql.DB) *Merger {
	return &Merger{db: db}
}

// lockFor returns the mutex serializing merges for one product name.
// Concurrent sources reporting the same product must not interleave the
// read-modify-write of that product's row and range; different products
// (shard collisions aside) proceed in parallel.
func (m *Merger) lockFor(name string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(name))
	return &m.locks[h.Sum32()%lockShards]
}

// Merge upserts the product matched by cleaned name, upserts the
// (product, retailer) listing, and recomputes the product's price range over
// its active listings. Re-running with the same input is a no-op apart from
// last_scraped.
func (m *Merger) Merge(ctx context.Context, n domain.NormalizedListing, retailer string) (productID int64, created bool, err error) {
	if n.Name == "" {
		return 0, false, fmt.Errorf("merge: empty product name")
	}
	if n.Price <= 0 {
		return 0, false, fmt.Errorf("merge: unusable price for %q", n.Name)
	}

	l := m.lockFor(n.Name)
	l.Lock()
	defer l.Unlock()

	existing, err := store.FindProductByName(ctx, m.db, n.Name)
	if err != nil {
		return 0, false, fmt.Errorf("merge lookup %q: %w", n.Name, err)
	}

	if existing == nil {
		productID, err = store.InsertProduct(ctx, m.db, n)
		if err != nil {
			return 0, false, fmt.Errorf("merge insert %q: %w", n.Name, err)
		}
		created = true
	} else {
		productID = existing.ID
		if err := store.UpdateProductMeta(ctx, m.db, productID, n); err != nil {
			return 0, false, fmt.Errorf("merge update %q: %w", n.Name, err)
		}
	}

	if err := store.UpsertListing(ctx, m.db, productID, retailer, n); err != nil {
		return 0, false, fmt.Errorf("merge listing %q/%s: %w", n.Name, retailer, err)
	}

	if err := store.RecomputePriceRange(ctx, m.db, productID); err != nil {
		return 0, false, fmt.Errorf("merge range %q: %w", n.Name, err)
	}

	return productID, created, nil
}

// Recompute re-derives one product's price range; exposed for the staleness
// sweep, which deactivates listings outside any merge.
func (m *Merger) Recompute(ctx context.Context, name string, productID int64) error {
	l := m.lockFor(name)
	l.Lock()
	defer l.Unlock()
	return store.RecomputePriceRange(ctx, m.db, productID)
}
