package category

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramvolt/ebay-lister/internal/listing"
)

func testCatalog() *Catalog {
	return NewCatalog([]Category{
		{ID: "11450", Name: "Clothing", Leaf: true},
		{ID: "15687", Name: "Men's T-Shirts", Leaf: true},
		{ID: "63861", Name: "Women's Dresses", Leaf: true},
		{ID: "93427", Name: "Men's Shoes", Leaf: true},
		{ID: "20693", Name: "Mugs", Leaf: true},
		{ID: "1", Name: "Fashion", Leaf: false},
	}, "")
}

func TestSuggest_ScoringAndOrder(t *testing.T) {
	got := testCatalog().Suggest("mens t shirt blue", nil, "", 5)
	require.NotEmpty(t, got)

	// "Men's T-Shirts" gets whole-word credit for mens/t/shirt tokens;
	// "Clothing" can at best collect substring points, so the specific leaf
	// ranks first.
	assert.Equal(t, "Men's T-Shirts", got[0].Name)
	assert.Greater(t, got[0].Score, 3)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestSuggest_TieBreakPrefersShorterName(t *testing.T) {
	catalog := NewCatalog([]Category{
		{ID: "2", Name: "Vintage Mugs And Cups", Leaf: true},
		{ID: "1", Name: "Mugs", Leaf: true},
	}, "")

	got := catalog.Suggest("mugs", nil, "", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "Mugs", got[0].Name)
}

func TestSuggest_UsesAspectsAndKeywords(t *testing.T) {
	got := testCatalog().Suggest("Nice item", listing.Aspects{
		"Type":   {"Dresses"},
		"Gender": {"Women's"},
	}, "", 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "Women's Dresses", got[0].Name)

	got = testCatalog().Suggest("Nice item", nil, "mugs kitchen", 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "Mugs", got[0].Name)
}

func TestSuggest_PrefersLeaves(t *testing.T) {
	got := testCatalog().Suggest("fashion", nil, "", 5)
	// "Fashion" is the only name matching, but it is not a leaf and the
	// table has leaves, so nothing is suggested.
	assert.Empty(t, got)
}

func TestSuggest_NoMatchesOrEmptyCatalog(t *testing.T) {
	assert.Empty(t, testCatalog().Suggest("zzzqqq", nil, "", 5))
	assert.Empty(t, testCatalog().Suggest("", nil, "", 5))
	assert.Empty(t, NewCatalog(nil, "").Suggest("mugs", nil, "", 5))
}

func TestBestCategoryID(t *testing.T) {
	catalog := testCatalog()

	id, err := catalog.BestCategoryID("mens t shirt", nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, "15687", id)

	// no match: explicit fallback wins
	id, err = catalog.BestCategoryID("zzzqqq", nil, "", "99999")
	require.NoError(t, err)
	assert.Equal(t, "99999", id)

	// then the configured default
	withDefault := NewCatalog(nil, "11450")
	id, err = withDefault.BestCategoryID("anything", nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, "11450", id)

	// nothing at all is a configuration error
	_, err = NewCatalog(nil, "").BestCategoryID("anything", nil, "", "")
	assert.ErrorIs(t, err, ErrNoCategory)
}

func TestLoad_WrappedAndBareFormats(t *testing.T) {
	dir := t.TempDir()

	wrapped := filepath.Join(dir, "wrapped.json")
	require.NoError(t, os.WriteFile(wrapped, []byte(`{
		"siteId": "3",
		"categories": [
			{"id": "15687", "name": "Men's T-Shirts", "leaf": true},
			{"CategoryID": "20693", "CategoryName": "Mugs", "LeafCategory": true},
			{"categoryId": "63861", "categoryName": "Women's Dresses", "leaf": "true"},
			{"name": "No ID, skipped"}
		]
	}`), 0o644))

	catalog := Load(wrapped, "")
	assert.Equal(t, 3, catalog.Len())

	got := catalog.Suggest("mugs", nil, "", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "20693", got[0].ID)

	bare := filepath.Join(dir, "bare.json")
	require.NoError(t, os.WriteFile(bare, []byte(`[
		{"id": 15687, "name": "Men's T-Shirts", "leaf": true}
	]`), 0o644))

	catalog = Load(bare, "")
	assert.Equal(t, 1, catalog.Len())
	got = catalog.Suggest("t shirt", nil, "", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "15687", got[0].ID)
}

func TestLoad_MissingOrInvalidFile(t *testing.T) {
	catalog := Load(filepath.Join(t.TempDir(), "nope.json"), "11450")
	assert.Equal(t, 0, catalog.Len())

	// default still applies even without a table
	id, err := catalog.BestCategoryID("anything", nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, "11450", id)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o644))
	assert.Equal(t, 0, Load(bad, "").Len())
}
