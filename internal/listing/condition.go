package listing

import (
	"strings"
)

// Condition is an eBay marketplace condition enum value.
type Condition string

// Marketplace-wide condition vocabulary. This is the superset across all
// categories; individual item types accept only a subset of it (see rules.go).
const (
	ConditionNew                   Condition = "NEW"
	ConditionLikeNew               Condition = "LIKE_NEW"
	ConditionNewOther              Condition = "NEW_OTHER"
	ConditionNewWithDefects        Condition = "NEW_WITH_DEFECTS"
	ConditionCertifiedRefurbished  Condition = "CERTIFIED_REFURBISHED"
	ConditionExcellentRefurbished  Condition = "EXCELLENT_REFURBISHED"
	ConditionVeryGoodRefurbished   Condition = "VERY_GOOD_REFURBISHED"
	ConditionGoodRefurbished       Condition = "GOOD_REFURBISHED"
	ConditionSellerRefurbished     Condition = "SELLER_REFURBISHED"
	ConditionUsedExcellent         Condition = "USED_EXCELLENT"
	ConditionUsedVeryGood          Condition = "USED_VERY_GOOD"
	ConditionUsedGood              Condition = "USED_GOOD"
	ConditionUsedAcceptable        Condition = "USED_ACCEPTABLE"
	ConditionPreOwnedExcellent     Condition = "PRE_OWNED_EXCELLENT"
	ConditionPreOwnedFair          Condition = "PRE_OWNED_FAIR"
	ConditionForPartsOrNotWorking  Condition = "FOR_PARTS_OR_NOT_WORKING"

	// ConditionUsed is the ungraded "Used" value. It is not part of the
	// marketplace-wide set but is the only used condition some categories
	// (crockery, kitchenware) accept.
	ConditionUsed Condition = "USED"
)

var validConditions = map[Condition]struct{}{
	ConditionNew:                  {},
	ConditionLikeNew:              {},
	ConditionNewOther:             {},
	ConditionNewWithDefects:       {},
	ConditionCertifiedRefurbished: {},
	ConditionExcellentRefurbished: {},
	ConditionVeryGoodRefurbished:  {},
	ConditionGoodRefurbished:      {},
	ConditionSellerRefurbished:    {},
	ConditionUsedExcellent:        {},
	ConditionUsedVeryGood:         {},
	ConditionUsedGood:             {},
	ConditionUsedAcceptable:       {},
	ConditionPreOwnedExcellent:    {},
	ConditionPreOwnedFair:         {},
	ConditionForPartsOrNotWorking: {},
}

// conditionAliases maps condition strings the model likes to produce, but
// which the Inventory API rejects, to their valid counterparts. The bare
// grades (GOOD, VERY_GOOD, ...) were accepted by an older API revision and
// still show up in model output regularly.
var conditionAliases = map[string]Condition{
	"GOOD":             ConditionUsedGood,
	"VERY_GOOD":        ConditionUsedVeryGood,
	"EXCELLENT":        ConditionUsedExcellent,
	"FAIR":             ConditionPreOwnedFair,
	"ACCEPTABLE":       ConditionUsedAcceptable,
	"NEW_WITH_TAGS":    ConditionNew,
	"NEW_WITHOUT_TAGS": ConditionNew,
}

// Valid reports whether c is in the marketplace-wide condition set.
func (c Condition) Valid() bool {
	_, ok := validConditions[c]
	return ok
}

// NormalizeCondition coerces a free-text condition description into a value
// from the marketplace-wide condition set. It never fails: unrecognizable
// input falls back to USED_VERY_GOOD.
//
// The alias table takes priority over substring inference, and within
// inference the multi-word patterns are checked before the single words they
// contain.
func NormalizeCondition(raw string) Condition {
	c := strings.ToUpper(strings.TrimSpace(raw))
	c = strings.ReplaceAll(c, " ", "_")

	if mapped, ok := conditionAliases[c]; ok {
		return mapped
	}
	if cond := Condition(c); cond.Valid() {
		return cond
	}

	switch {
	case strings.Contains(c, "LIKE") && strings.Contains(c, "NEW"):
		return ConditionLikeNew
	case strings.Contains(c, "NEW"):
		return ConditionNew
	case strings.Contains(c, "EXCELLENT"):
		return ConditionUsedExcellent
	case strings.Contains(c, "VERY") && strings.Contains(c, "GOOD"):
		return ConditionUsedVeryGood
	case strings.Contains(c, "GOOD"):
		return ConditionUsedGood
	case strings.Contains(c, "ACCEPTABLE"), strings.Contains(c, "FAIR"):
		return ConditionUsedAcceptable
	default:
		return ConditionUsedVeryGood
	}
}
