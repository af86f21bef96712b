// Package category suggests eBay leaf categories for a listing by scoring a
// locally dumped category table against tokens from the listing's title,
// aspects and keywords. The table comes from the Trading API GetCategories
// dump (see cmd/dump-categories); it is loaded once and cached for the
// process lifetime.
package category

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Category is one entry of the local category table.
type Category struct {
	ID   string
	Name string
	Leaf bool
}

// Catalog holds the loaded category table.
type Catalog struct {
	categories []Category
	// defaultID is returned by BestCategoryID when nothing matches and no
	// explicit fallback was given. May be empty.
	defaultID string
}

// rawCategory tolerates the key spellings the various dump revisions used.
type rawCategory struct {
	CategoryID   string `json:"CategoryID"`
	ID           any    `json:"id"`
	CategoryId   string `json:"categoryId"`
	CategoryName string `json:"CategoryName"`
	Name         string `json:"name"`
	CategoryNm   string `json:"categoryName"`
	LeafCategory any    `json:"LeafCategory"`
	Leaf         any    `json:"leaf"`
}

func (r rawCategory) normalize() (Category, bool) {
	id := firstNonEmpty(r.CategoryID, coerceID(r.ID), r.CategoryId)
	name := firstNonEmpty(r.CategoryName, r.Name, r.CategoryNm)
	if id == "" || name == "" {
		return Category{}, false
	}
	leaf := coerceBool(r.LeafCategory)
	if r.LeafCategory == nil {
		leaf = coerceBool(r.Leaf)
	}
	return Category{ID: id, Name: name, Leaf: leaf}, true
}

// Load reads the category table from a JSON file. The document may be a bare
// list or wrapped as {"categories": [...]}. Entries without an ID or name are
// skipped. A missing or unreadable file is not an error: it yields an empty
// catalog that suggests nothing.
func Load(path, defaultID string) *Catalog {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("categories file not loaded")
		return &Catalog{defaultID: defaultID}
	}

	cats, err := parseCategories(data)
	if err != nil {
		log.Error().Str("path", path).Err(err).Msg("invalid categories file")
		return &Catalog{defaultID: defaultID}
	}

	log.Info().Str("path", path).Int("count", len(cats)).Msg("loaded categories")
	return &Catalog{categories: cats, defaultID: defaultID}
}

// NewCatalog builds a catalog from an in-memory category list.
func NewCatalog(categories []Category, defaultID string) *Catalog {
	return &Catalog{categories: categories, defaultID: defaultID}
}

func parseCategories(data []byte) ([]Category, error) {
	var raw []rawCategory

	var wrapped struct {
		Categories []rawCategory `json:"categories"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Categories != nil {
		raw = wrapped.Categories
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}

	cats := make([]Category, 0, len(raw))
	for _, r := range raw {
		if c, ok := r.normalize(); ok {
			cats = append(cats, c)
		}
	}
	return cats, nil
}

// Len returns the number of loaded categories.
func (c *Catalog) Len() int {
	return len(c.categories)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func coerceID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return ""
	}
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	default:
		return false
	}
}
