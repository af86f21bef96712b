package listing

import "strings"

// ItemType selects which category rule set applies to an item. eBay enforces
// different condition vocabularies and required item specifics per category
// family, so the type must be known before a payload can be built.
type ItemType int

const (
	ItemTypeGeneral ItemType = iota
	ItemTypeClothing
	ItemTypeKitchenware
	ItemTypeShoes
	ItemTypeBooks
	ItemTypeElectronics
)

func (t ItemType) String() string {
	switch t {
	case ItemTypeClothing:
		return "clothing"
	case ItemTypeKitchenware:
		return "kitchenware"
	case ItemTypeShoes:
		return "shoes"
	case ItemTypeBooks:
		return "books"
	case ItemTypeElectronics:
		return "electronics"
	default:
		return "general"
	}
}

// itemTypeAliases maps free-text item descriptions to a canonical ItemType.
var itemTypeAliases = map[string]ItemType{
	"clothing": ItemTypeClothing,
	"clothes":  ItemTypeClothing,
	"apparel":  ItemTypeClothing,
	"t-shirt":  ItemTypeClothing,
	"tshirt":   ItemTypeClothing,
	"shirt":    ItemTypeClothing,
	"dress":    ItemTypeClothing,
	"jacket":   ItemTypeClothing,
	"jeans":    ItemTypeClothing,
	"trousers": ItemTypeClothing,
	"pants":    ItemTypeClothing,

	"kitchenware": ItemTypeKitchenware,
	"crockery":    ItemTypeKitchenware,
	"mug":         ItemTypeKitchenware,
	"mugs":        ItemTypeKitchenware,
	"cup":         ItemTypeKitchenware,
	"plate":       ItemTypeKitchenware,
	"bowl":        ItemTypeKitchenware,
	"dish":        ItemTypeKitchenware,
	"ceramic":     ItemTypeKitchenware,
	"pottery":     ItemTypeKitchenware,

	"shoes":    ItemTypeShoes,
	"shoe":     ItemTypeShoes,
	"footwear": ItemTypeShoes,
	"trainers": ItemTypeShoes,
	"boots":    ItemTypeShoes,
	"heels":    ItemTypeShoes,
	"sandals":  ItemTypeShoes,
	"sneakers": ItemTypeShoes,

	"books":    ItemTypeBooks,
	"book":     ItemTypeBooks,
	"media":    ItemTypeBooks,
	"dvd":      ItemTypeBooks,
	"cd":       ItemTypeBooks,
	"vinyl":    ItemTypeBooks,
	"magazine": ItemTypeBooks,

	"electronics": ItemTypeElectronics,
	"electronic":  ItemTypeElectronics,
	"phone":       ItemTypeElectronics,
	"laptop":      ItemTypeElectronics,
	"computer":    ItemTypeElectronics,
	"camera":      ItemTypeElectronics,
	"tablet":      ItemTypeElectronics,
	"gadget":      ItemTypeElectronics,

	"general": ItemTypeGeneral,
	"other":   ItemTypeGeneral,
}

// ParseItemType resolves a free-text item type to one of the canonical
// types. Anything unrecognized is treated as general.
func ParseItemType(s string) ItemType {
	if t, ok := itemTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return ItemTypeGeneral
}

// conditionRule maps a generic condition keyword to the enum value that is
// valid for the owning item type's categories.
type conditionRule struct {
	keyword string
	value   Condition
}

// Rules holds the listing requirements for one item type.
type Rules struct {
	Name              string
	DefaultCategoryID string

	// conditionMapping is scanned in order; the first keyword found as a
	// substring of the (lowercased, space-separated) condition wins. Multi
	// word keywords come before the single words they contain, otherwise
	// "like new" would resolve as "new".
	conditionMapping []conditionRule

	DefaultCondition Condition

	// RequiredAspects must be present on every listing in this type's
	// categories. DefaultAspects supplies values for them; a required aspect
	// without a default gets "Not Specified".
	RequiredAspects []string
	DefaultAspects  map[string]string

	// SingleValueAspects may carry only one value in this type's categories.
	SingleValueAspects []string
}

// RulesFor returns the immutable rule set for an item type.
func RulesFor(t ItemType) Rules {
	switch t {
	case ItemTypeClothing:
		return clothingRules
	case ItemTypeKitchenware:
		return kitchenwareRules
	case ItemTypeShoes:
		return shoesRules
	case ItemTypeBooks:
		return booksRules
	case ItemTypeElectronics:
		return electronicsRules
	default:
		return generalRules
	}
}

var clothingRules = Rules{
	Name:              "Clothing",
	DefaultCategoryID: "15687", // Men's T-Shirts
	conditionMapping: []conditionRule{
		{"like new", ConditionPreOwnedExcellent},
		{"very good", ConditionPreOwnedExcellent},
		{"excellent", ConditionPreOwnedExcellent},
		{"new", ConditionNew},
		{"good", ConditionUsedGood},
		{"acceptable", ConditionPreOwnedFair},
		{"fair", ConditionPreOwnedFair},
	},
	DefaultCondition: ConditionPreOwnedExcellent,
	RequiredAspects:  []string{"Brand", "Department"},
	DefaultAspects: map[string]string{
		"Brand":      "Unbranded",
		"Department": "Unisex Adults",
	},
	SingleValueAspects: []string{"Colour", "Size", "Department"},
}

var kitchenwareRules = Rules{
	Name:              "Kitchenware/Crockery",
	DefaultCategoryID: "20693", // Mugs
	// Crockery categories only allow NEW, NEW_OTHER or ungraded USED.
	conditionMapping: []conditionRule{
		{"like new", ConditionUsed},
		{"new other", ConditionNewOther},
		{"very good", ConditionUsed},
		{"excellent", ConditionUsed},
		{"new", ConditionNew},
		{"good", ConditionUsed},
		{"acceptable", ConditionUsed},
		{"fair", ConditionUsed},
		{"used", ConditionUsed},
	},
	DefaultCondition: ConditionUsed,
	RequiredAspects:  []string{"Brand"},
	DefaultAspects: map[string]string{
		"Brand": "Unbranded",
	},
	SingleValueAspects: []string{"Colour"},
}

var shoesRules = Rules{
	Name:              "Shoes",
	DefaultCategoryID: "93427", // Men's Shoes
	conditionMapping: []conditionRule{
		{"like new", ConditionPreOwnedExcellent},
		{"very good", ConditionPreOwnedExcellent},
		{"excellent", ConditionPreOwnedExcellent},
		{"new", ConditionNew},
		{"good", ConditionUsedGood},
		{"acceptable", ConditionPreOwnedFair},
		{"fair", ConditionPreOwnedFair},
	},
	DefaultCondition: ConditionPreOwnedExcellent,
	RequiredAspects:  []string{"Brand", "UK Shoe Size"},
	DefaultAspects: map[string]string{
		"Brand": "Unbranded",
	},
	SingleValueAspects: []string{"Colour", "UK Shoe Size"},
}

var booksRules = Rules{
	Name:              "Books & Media",
	DefaultCategoryID: "261186", // Books
	conditionMapping: []conditionRule{
		{"like new", ConditionLikeNew},
		{"excellent", ConditionLikeNew},
		{"very good", ConditionUsedVeryGood},
		{"new", ConditionNew},
		{"good", ConditionUsedGood},
		{"acceptable", ConditionUsedAcceptable},
		{"fair", ConditionUsedAcceptable},
	},
	DefaultCondition: ConditionUsedVeryGood,
	// Books use Author but Brand is still required by the API.
	RequiredAspects: []string{"Brand"},
	DefaultAspects: map[string]string{
		"Brand": "Unbranded",
	},
	SingleValueAspects: nil,
}

var electronicsRules = Rules{
	Name:              "Electronics",
	DefaultCategoryID: "175672", // Consumer Electronics
	conditionMapping: []conditionRule{
		{"like new", ConditionUsedExcellent},
		{"excellent", ConditionUsedExcellent},
		{"very good", ConditionUsedVeryGood},
		{"new", ConditionNew},
		{"good", ConditionUsedGood},
		{"acceptable", ConditionUsedAcceptable},
		{"fair", ConditionUsedAcceptable},
	},
	DefaultCondition: ConditionUsedVeryGood,
	RequiredAspects:  []string{"Brand"},
	DefaultAspects: map[string]string{
		"Brand": "Unbranded",
	},
	SingleValueAspects: []string{"Colour"},
}

var generalRules = Rules{
	Name:              "General/Other",
	DefaultCategoryID: "11450", // Other
	conditionMapping: []conditionRule{
		{"like new", ConditionUsedExcellent},
		{"excellent", ConditionUsedExcellent},
		{"very good", ConditionUsedVeryGood},
		{"new", ConditionNew},
		{"good", ConditionUsedGood},
		{"acceptable", ConditionUsedAcceptable},
		{"fair", ConditionUsedAcceptable},
	},
	DefaultCondition: ConditionUsedVeryGood,
	RequiredAspects:  []string{"Brand"},
	DefaultAspects: map[string]string{
		"Brand": "Unbranded",
	},
	SingleValueAspects: []string{"Colour"},
}

// ReconcileCondition converts a generic condition label into the enum value
// valid for the item type's categories. Pure function over the static rule
// tables; unmatched input gets the type's default.
func ReconcileCondition(generic string, t ItemType) Condition {
	rules := RulesFor(t)

	probe := strings.ToLower(generic)
	probe = strings.ReplaceAll(probe, "_", " ")
	probe = strings.ReplaceAll(probe, "-", " ")
	probe = strings.TrimSpace(probe)

	for _, rule := range rules.conditionMapping {
		if strings.Contains(probe, rule.keyword) {
			return rule.value
		}
	}
	return rules.DefaultCondition
}

// ApplyRequiredAspects completes an aspects map per the item type's rules:
// missing required aspects get their defaults, the UK "Color" spelling is
// fixed up, and single-value aspects are collapsed to one value. A
// multi-valued Colour collapses to "Multicoloured" instead of dropping
// values. Returns a new map; the input is not modified.
func ApplyRequiredAspects(aspects Aspects, t ItemType) Aspects {
	rules := RulesFor(t)
	out := aspects.Clone()

	for _, name := range rules.RequiredAspects {
		if len(out[name]) == 0 {
			value, ok := rules.DefaultAspects[name]
			if !ok {
				value = "Not Specified"
			}
			out[name] = []string{value}
		}
	}

	// UK marketplace spelling. An existing Colour wins over Color.
	if color, ok := out["Color"]; ok {
		if _, ok := out["Colour"]; !ok {
			out["Colour"] = color
		}
		delete(out, "Color")
	}

	for _, name := range rules.SingleValueAspects {
		if values, ok := out[name]; ok && len(values) > 1 {
			if name == "Colour" {
				out[name] = []string{"Multicoloured"}
			} else {
				out[name] = values[:1]
			}
		}
	}

	return out
}

// DefaultCategoryID returns the fallback eBay category for an item type.
func DefaultCategoryID(t ItemType) string {
	return RulesFor(t).DefaultCategoryID
}
