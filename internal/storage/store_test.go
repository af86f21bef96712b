package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "listings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndListListings(t *testing.T) {
	store := newTestStore(t)

	first := &ListingRecord{
		SKU:        "SKU-1",
		OfferID:    "offer-1",
		Title:      "Levi's 501 Jeans",
		Price:      25.50,
		CategoryID: "11483",
		Condition:  "USED_GOOD",
		ImageURL:   "https://i.ebayimg.com/1.jpg",
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.RecordListing(first))

	second := &ListingRecord{
		SKU:        "SKU-2",
		OfferID:    "offer-2",
		Title:      "Ceramic Mug",
		Price:      4.99,
		CategoryID: "20693",
		Condition:  "USED",
		CreatedAt:  time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.RecordListing(second))

	records, err := store.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// newest first
	assert.Equal(t, "SKU-2", records[0].SKU)
	assert.Equal(t, "SKU-1", records[1].SKU)
	assert.Equal(t, 25.50, records[1].Price)
	assert.Equal(t, "USED_GOOD", records[1].Condition)
}

func TestRecordListingUpsertsBySKU(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordListing(&ListingRecord{
		SKU: "SKU-1", OfferID: "offer-1", Title: "First", Price: 1, CategoryID: "1", Condition: "USED",
	}))
	require.NoError(t, store.RecordListing(&ListingRecord{
		SKU: "SKU-1", OfferID: "offer-2", Title: "Second", Price: 2, CategoryID: "1", Condition: "USED",
	}))

	records, err := store.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "offer-2", records[0].OfferID)
	assert.Equal(t, "Second", records[0].Title)
}

func TestMarkPublished(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordListing(&ListingRecord{
		SKU: "SKU-1", OfferID: "offer-1", Title: "Thing", Price: 1, CategoryID: "1", Condition: "USED",
	}))
	require.NoError(t, store.MarkPublished("SKU-1", "1100042"))

	records, err := store.ListRecent(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1100042", records[0].ListingID)
}

func TestListRecentLimit(t *testing.T) {
	store := newTestStore(t)

	for _, sku := range []string{"SKU-1", "SKU-2", "SKU-3"} {
		require.NoError(t, store.RecordListing(&ListingRecord{
			SKU: sku, OfferID: "offer", Title: "Thing", Price: 1, CategoryID: "1", Condition: "USED",
		}))
	}

	records, err := store.ListRecent(2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
