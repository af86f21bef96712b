package category

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ramvolt/ebay-lister/internal/listing"
)

// ErrNoCategory is returned when no category matched and no fallback or
// default category is configured. The caller cannot build an offer without
// one, so this is a configuration problem, not a transient failure.
var ErrNoCategory = errors.New(
	"could not determine category: no matches found and no fallback configured")

// Candidate is a scored category suggestion.
type Candidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Leaf  bool   `json:"leaf"`
	Score int    `json:"score"`
}

// priorityAspects are the aspect names whose values help identify a
// category, in priority order.
var priorityAspects = []string{
	"Type", "Garment Type", "Product Type",
	"Department", "Gender",
	"Style", "Category",
	"Brand",
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// tokenize extracts lowercase alphanumeric runs; everything else separates.
func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Suggest returns up to topK category candidates for the given listing
// details, most relevant first. It prefers leaf categories when any are
// present, since only leaves can carry a listing. Returns nil when the
// catalog is empty or no token overlaps.
func (c *Catalog) Suggest(title string, aspects listing.Aspects, keywords string, topK int) []Candidate {
	if len(c.categories) == 0 {
		log.Warn().Msg("no categories loaded, cannot suggest category")
		return nil
	}

	queryParts := []string{title}
	if keywords != "" {
		queryParts = append(queryParts, keywords)
	}
	for _, name := range priorityAspects {
		values := aspects[name]
		if len(values) > 2 {
			values = values[:2]
		}
		queryParts = append(queryParts, values...)
	}

	queryTokens := tokenize(strings.Join(queryParts, " "))
	if len(queryTokens) == 0 {
		log.Warn().Msg("no query tokens to search categories with")
		return nil
	}

	pool := c.leaves()
	if len(pool) == 0 {
		pool = c.categories
	}

	var scored []Candidate
	for _, cat := range pool {
		nameLower := strings.ToLower(cat.Name)
		nameTokens := tokenSet(nameLower)

		score := 0
		for _, token := range queryTokens {
			if _, ok := nameTokens[token]; ok {
				score += 3 // whole word match
			} else if strings.Contains(nameLower, token) {
				score += 1
			}
		}
		if score > 0 {
			scored = append(scored, Candidate{ID: cat.ID, Name: cat.Name, Leaf: cat.Leaf, Score: score})
		}
	}

	// Highest score first; among ties the shorter name is the more specific
	// match.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return len(scored[i].Name) < len(scored[j].Name)
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	if len(scored) > 0 {
		log.Info().
			Str("name", scored[0].Name).
			Str("id", scored[0].ID).
			Int("score", scored[0].Score).
			Msg("top category suggestion")
	}
	return scored
}

// BestCategoryID resolves the single best category for a listing. Resolution
// order: top suggestion, then fallbackID, then the catalog's configured
// default. ErrNoCategory when all three come up empty.
func (c *Catalog) BestCategoryID(title string, aspects listing.Aspects, keywords, fallbackID string) (string, error) {
	if suggestions := c.Suggest(title, aspects, keywords, 1); len(suggestions) > 0 {
		return suggestions[0].ID, nil
	}
	if fallbackID != "" {
		log.Warn().Str("fallback", fallbackID).Msg("no category match, using fallback")
		return fallbackID, nil
	}
	if c.defaultID != "" {
		log.Warn().Str("default", c.defaultID).Msg("no category match, using configured default")
		return c.defaultID, nil
	}
	return "", ErrNoCategory
}

func (c *Catalog) leaves() []Category {
	var out []Category
	for _, cat := range c.categories {
		if cat.Leaf {
			out = append(out, cat)
		}
	}
	return out
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range tokenize(text) {
		set[t] = struct{}{}
	}
	return set
}
