package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partscout-engine/internal/domain"
	"partscout-engine/internal/store"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))
	return db
}

func normalized(name string, price float64) domain.NormalizedListing {
	return domain.NormalizedListing{
		Name:        name,
		Category:    domain.CategoryCPU,
		Brand:       "AMD",
		Price:       price,
		URL:         "https://example.ph/p/x",
		StockStatus: domain.StockIn,
	}
}

func TestMergeCreatesThenUpdates(t *testing.T) {
	db := newTestDB(t)
	m := NewMerger(db)
	ctx := context.Background()

	id1, created, err := m.Merge(ctx, normalized("AMD Ryzen 5 5600", 6495), "easypc")
	require.NoError(t, err)
	assert.True(t, created)

	id2, created, err := m.Merge(ctx, normalized("AMD Ryzen 5 5600", 6295), "easypc")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id1, id2)

	// re-merging the same retailer updates the listing, no duplicate row
	ls, err := store.ActiveListings(ctx, db, id1)
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, 6295.0, ls[0].Price)
}

func TestMergePreservesNameAndCategory(t *testing.T) {
	db := newTestDB(t)
	m := NewMerger(db)
	ctx := context.Background()

	id, _, err := m.Merge(ctx, normalized("AMD Ryzen 5 5600", 6495), "easypc")
	require.NoError(t, err)

	// a noisier later scrape must not flip the stored classification
	noisy := normalized("AMD Ryzen 5 5600", 6495)
	noisy.Category = domain.CategoryOther
	noisy.Brand = ""
	_, _, err = m.Merge(ctx, noisy, "bermorzone")
	require.NoError(t, err)

	p, err := store.FindProductByName(ctx, db, "AMD Ryzen 5 5600")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, domain.CategoryCPU, p.Category)
	assert.Equal(t, "AMD", p.Brand)
}

func TestMergePriceRangeAcrossRetailers(t *testing.T) {
	db := newTestDB(t)
	m := NewMerger(db)
	ctx := context.Background()

	for retailer, price := range map[string]float64{
		"shop-a": 1000,
		"shop-b": 1500,
		"shop-c": 1200,
	} {
		_, _, err := m.Merge(ctx, normalized("AMD Ryzen 5 5600", price), retailer)
		require.NoError(t, err)
	}

	p, err := store.FindProductByName(ctx, db, "AMD Ryzen 5 5600")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, p.LowestPrice)
	assert.Equal(t, 1500.0, p.HighestPrice)
	assert.True(t, p.LowestPrice <= p.HighestPrice)
}

func TestMergeRejectsUnusableInput(t *testing.T) {
	db := newTestDB(t)
	m := NewMerger(db)
	ctx := context.Background()

	_, _, err := m.Merge(ctx, normalized("", 100), "easypc")
	require.Error(t, err)

	_, _, err = m.Merge(ctx, normalized("Some CPU", 0), "easypc")
	require.Error(t, err)
}

func TestMergeConcurrentSameProduct(t *testing.T) {
	db := newTestDB(t)
	m := NewMerger(db)
	ctx := context.Background()

	// concurrent merges of one product from many retailers must serialize
	// on that product and end with a consistent range
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			retailer := fmt.Sprintf("shop-%d", i)
			_, _, err := m.Merge(ctx, normalized("AMD Ryzen 5 5600", float64(1000+i*100)), retailer)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	p, err := store.FindProductByName(ctx, db, "AMD Ryzen 5 5600")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, p.LowestPrice)
	assert.Equal(t, 1700.0, p.HighestPrice)

	ls, err := store.ActiveListings(ctx, db, p.ID)
	require.NoError(t, err)
	assert.Len(t, ls, 8)
}

func TestRecomputeAfterDeactivation(t *testing.T) {
	db := newTestDB(t)
	m := NewMerger(db)
	ctx := context.Background()

	id, _, err := m.Merge(ctx, normalized("AMD Ryzen 5 5600", 1000), "shop-a")
	require.NoError(t, err)
	_, _, err = m.Merge(ctx, normalized("AMD Ryzen 5 5600", 1500), "shop-b")
	require.NoError(t, err)

	require.NoError(t, store.DeactivateListing(ctx, db, id, "shop-a"))
	require.NoError(t, m.Recompute(ctx, "AMD Ryzen 5 5600", id))

	p, err := store.FindProductByName(ctx, db, "AMD Ryzen 5 5600")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, p.LowestPrice)
	assert.Equal(t, 1500.0, p.HighestPrice)
}

func TestLockForIsStableAndBounded(t *testing.T) {
	m := NewMerger(newTestDB(t))

	// same name, same mutex, across any number of merges
	assert.Same(t, m.lockFor("AMD Ryzen 5 5600"), m.lockFor("AMD Ryzen 5 5600"))

	// the lock table stays fixed-size no matter how many names pass through
	seen := map[*sync.Mutex]struct{}{}
	for i := 0; i < 10_000; i++ {
		seen[m.lockFor(fmt.Sprintf("Product %d", i))] = struct{}{}
	}
	assert.LessOrEqual(t, len(seen), lockShards)
}
