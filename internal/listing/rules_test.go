package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseItemType(t *testing.T) {
	tests := map[string]struct {
		in   string
		want ItemType
	}{
		"canonical":       {"clothing", ItemTypeClothing},
		"uppercase":       {"  SHOES ", ItemTypeShoes},
		"clothing alias":  {"t-shirt", ItemTypeClothing},
		"crockery alias":  {"mug", ItemTypeKitchenware},
		"media alias":     {"dvd", ItemTypeBooks},
		"gadget alias":    {"laptop", ItemTypeElectronics},
		"other":           {"other", ItemTypeGeneral},
		"unknown default": {"spaceship", ItemTypeGeneral},
		"empty default":   {"", ItemTypeGeneral},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseItemType(tt.in))
		})
	}
}

// The same generic condition maps to different enums depending on the item
// type, because eBay accepts different condition subsets per category.
func TestReconcileCondition(t *testing.T) {
	tests := []struct {
		condition string
		itemType  ItemType
		want      Condition
	}{
		{"Good", ItemTypeKitchenware, ConditionUsed},
		{"Good", ItemTypeBooks, ConditionUsedGood},
		{"Good", ItemTypeClothing, ConditionUsedGood},
		{"very good", ItemTypeClothing, ConditionPreOwnedExcellent},
		{"very good", ItemTypeBooks, ConditionUsedVeryGood},
		{"very good", ItemTypeElectronics, ConditionUsedVeryGood},
		{"VERY_GOOD", ItemTypeShoes, ConditionPreOwnedExcellent},
		{"like-new", ItemTypeBooks, ConditionLikeNew},
		{"like new", ItemTypeKitchenware, ConditionUsed},
		{"like new", ItemTypeElectronics, ConditionUsedExcellent},
		{"brand new", ItemTypeClothing, ConditionNew},
		{"new other", ItemTypeKitchenware, ConditionNewOther},
		{"excellent", ItemTypeGeneral, ConditionUsedExcellent},
		{"acceptable", ItemTypeShoes, ConditionPreOwnedFair},
		{"fair", ItemTypeBooks, ConditionUsedAcceptable},
		{"USED_VERY_GOOD", ItemTypeClothing, ConditionPreOwnedExcellent},
		{"USED_VERY_GOOD", ItemTypeKitchenware, ConditionUsed},
		// no keyword matches: type default
		{"mint", ItemTypeClothing, ConditionPreOwnedExcellent},
		{"mint", ItemTypeKitchenware, ConditionUsed},
		{"mint", ItemTypeGeneral, ConditionUsedVeryGood},
	}

	for _, tt := range tests {
		t.Run(tt.condition+"/"+tt.itemType.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ReconcileCondition(tt.condition, tt.itemType))
		})
	}
}

func TestApplyRequiredAspects_Defaults(t *testing.T) {
	got := ApplyRequiredAspects(Aspects{}, ItemTypeShoes)

	assert.Equal(t, []string{"Unbranded"}, got["Brand"])
	// required but no default value configured
	assert.Equal(t, []string{"Not Specified"}, got["UK Shoe Size"])
}

func TestApplyRequiredAspects_KeepsSupplied(t *testing.T) {
	got := ApplyRequiredAspects(Aspects{
		"Brand":      {"Adidas"},
		"Department": {"Men"},
	}, ItemTypeClothing)

	assert.Equal(t, []string{"Adidas"}, got["Brand"])
	assert.Equal(t, []string{"Men"}, got["Department"])
}

func TestApplyRequiredAspects_SingleValueCollapse(t *testing.T) {
	got := ApplyRequiredAspects(Aspects{
		"Colour": {"Red", "Blue"},
		"Size":   {"M", "L"},
	}, ItemTypeClothing)

	// Colour collapses to the literal Multicoloured, other single-value
	// aspects keep their first entry.
	assert.Equal(t, []string{"Multicoloured"}, got["Colour"])
	assert.Equal(t, []string{"M"}, got["Size"])

	// Size is not single-valued for kitchenware, so it survives intact there.
	got = ApplyRequiredAspects(Aspects{
		"Colour": {"Red", "Blue"},
		"Size":   {"M", "L"},
	}, ItemTypeKitchenware)
	assert.Equal(t, []string{"Multicoloured"}, got["Colour"])
	assert.Equal(t, []string{"M", "L"}, got["Size"])
}

func TestApplyRequiredAspects_ColorSpelling(t *testing.T) {
	got := ApplyRequiredAspects(Aspects{"Color": {"Red"}}, ItemTypeGeneral)
	assert.Equal(t, []string{"Red"}, got["Colour"])
	assert.NotContains(t, got, "Color")

	// existing Colour wins, Color is discarded
	got = ApplyRequiredAspects(Aspects{
		"Color":  {"Red"},
		"Colour": {"Green"},
	}, ItemTypeGeneral)
	assert.Equal(t, []string{"Green"}, got["Colour"])
	assert.NotContains(t, got, "Color")

	// renamed Color gets the single-value treatment too
	got = ApplyRequiredAspects(Aspects{"Color": {"Red", "Green"}}, ItemTypeClothing)
	assert.Equal(t, []string{"Multicoloured"}, got["Colour"])
}

func TestApplyRequiredAspects_DoesNotMutateInput(t *testing.T) {
	in := Aspects{"Colour": {"Red", "Blue"}}
	ApplyRequiredAspects(in, ItemTypeClothing)
	assert.Equal(t, Aspects{"Colour": {"Red", "Blue"}}, in)
}

func TestDefaultCategoryID(t *testing.T) {
	assert.Equal(t, "15687", DefaultCategoryID(ItemTypeClothing))
	assert.Equal(t, "20693", DefaultCategoryID(ItemTypeKitchenware))
	assert.Equal(t, "93427", DefaultCategoryID(ItemTypeShoes))
	assert.Equal(t, "261186", DefaultCategoryID(ItemTypeBooks))
	assert.Equal(t, "175672", DefaultCategoryID(ItemTypeElectronics))
	assert.Equal(t, "11450", DefaultCategoryID(ItemTypeGeneral))
}

// End-to-end: a hostile raw analysis for a clothing item normalizes and
// reconciles into valid, category-specific values.
func TestNormalizeAndReconcileEndToEnd(t *testing.T) {
	raw := RawAnalysis{
		Title:            veryLongTitle(100),
		Price:            "bad",
		Condition:        "very good",
		Aspects:          map[string]any{"Color": []any{"Red", "Green"}},
		CategoryKeywords: "",
	}

	normalized := Normalize(raw)
	assert.Len(t, normalized.Title, 80)
	assert.Equal(t, 9.99, normalized.Price)

	condition := ReconcileCondition(string(normalized.Condition), ItemTypeClothing)
	assert.Equal(t, ConditionPreOwnedExcellent, condition)

	aspects := ApplyRequiredAspects(normalized.Aspects, ItemTypeClothing)
	assert.Equal(t, []string{"Multicoloured"}, aspects["Colour"])
	assert.NotContains(t, aspects, "Color")
	assert.Equal(t, []string{"Unbranded"}, aspects["Brand"])
	assert.Equal(t, []string{"Unisex Adults"}, aspects["Department"])
}

func veryLongTitle(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return string(b)
}
