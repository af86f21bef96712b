package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice(t *testing.T) {
	tests := map[string]struct {
		price any
		want  float64
	}{
		"numeric":           {19.99, 19.99},
		"numeric string":    {"24.50", 24.5},
		"padded string":     {" 12.00 ", 12.0},
		"unparsable":        {"cheap", 9.99},
		"missing":           {nil, 9.99},
		"negative clamps":   {-5.0, 0.99},
		"zero clamps":       {0.0, 0.99},
		"huge clamps":       {1e9, 999999.99},
		"rounds to 2dp":     {10.006, 10.01},
		"bool is not money": {true, 9.99},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Normalize(RawAnalysis{Price: tt.price})
			assert.Equal(t, tt.want, got.Price)
			assert.GreaterOrEqual(t, got.Price, MinPrice)
			assert.LessOrEqual(t, got.Price, MaxPrice)
		})
	}
}

func TestNormalizeCondition(t *testing.T) {
	tests := map[string]struct {
		condition string
		want      Condition
	}{
		"valid passes through": {"USED_GOOD", ConditionUsedGood},
		"lowercase valid":      {"used_good", ConditionUsedGood},
		"spaces to underscore": {"pre owned fair", ConditionPreOwnedFair},
		"alias bare good":      {"GOOD", ConditionUsedGood},
		"alias bare very good": {"Very Good", ConditionUsedVeryGood},
		"alias bare excellent": {"excellent", ConditionUsedExcellent},
		"alias bare fair":      {"FAIR", ConditionPreOwnedFair},
		"alias new with tags":  {"NEW WITH TAGS", ConditionNew},
		"infer like new":       {"practically like new!", ConditionLikeNew},
		"infer new":            {"brand new in box", ConditionNew},
		"infer very good":      {"in very good shape", ConditionUsedVeryGood},
		"infer good":           {"pretty good overall", ConditionUsedGood},
		"infer acceptable":     {"acceptable with marks", ConditionUsedAcceptable},
		"infer fair":           {"fairly worn", ConditionUsedAcceptable},
		"garbage defaults":     {"meh", ConditionUsedVeryGood},
		"empty defaults":       {"", ConditionUsedVeryGood},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := NormalizeCondition(tt.condition)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid(), "normalized condition must be in the marketplace set")
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	long := strings.Repeat("x", 100)
	got := Normalize(RawAnalysis{Title: long})
	assert.Len(t, got.Title, 80)

	assert.Equal(t, "Item for Sale", Normalize(RawAnalysis{}).Title)
	assert.Equal(t, "Item for Sale", Normalize(RawAnalysis{Title: "   "}).Title)
	assert.Equal(t, "42", Normalize(RawAnalysis{Title: 42.0}).Title)
}

func TestNormalizeDescription(t *testing.T) {
	got := Normalize(RawAnalysis{Description: "  <p>Nice</p>  "})
	assert.Equal(t, "<p>Nice</p>", got.Description)

	fallback := Normalize(RawAnalysis{})
	assert.NotEmpty(t, fallback.Description)
	assert.Contains(t, fallback.Description, "photos")
}

func TestNormalizeAspects(t *testing.T) {
	got := Normalize(RawAnalysis{
		Aspects: map[string]any{
			"Brand":    "Nike",
			"Size":     []any{"M", "", "  L "},
			"Material": nil,
			" Style ":  []any{"Casual"},
			"Era":      []any{"", "   "},
			"Year":     1990.0,
		},
	})

	assert.Equal(t, Aspects{
		"Brand": {"Nike"},
		"Size":  {"M", "L"},
		"Style": {"Casual"},
		"Year":  {"1990"},
	}, got.Aspects)
}

// Normalizing an already normalized listing must change nothing.
func TestNormalizeIdempotent(t *testing.T) {
	first := Normalize(RawAnalysis{
		Title:            " Vintage Levi's 501 Jeans ",
		Description:      "<p>Classic denim</p>",
		Price:            "34.999",
		Condition:        "very good",
		Aspects:          map[string]any{"Brand": []any{"Levi's"}, "Size": "W32"},
		CategoryKeywords: " jeans denim ",
	})

	rawAgain := RawAnalysis{
		Title:            first.Title,
		Description:      first.Description,
		Price:            first.Price,
		Condition:        string(first.Condition),
		Aspects:          map[string]any{},
		CategoryKeywords: first.CategoryKeywords,
	}
	for k, v := range first.Aspects {
		values := make([]any, len(v))
		for i, s := range v {
			values[i] = s
		}
		rawAgain.Aspects[k] = values
	}

	assert.Equal(t, first, Normalize(rawAgain))
}
