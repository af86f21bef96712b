package listing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// MaxTitleLen is eBay's title length limit.
	MaxTitleLen = 80

	// MinPrice and MaxPrice are the bounds the Inventory API accepts.
	MinPrice = 0.99
	MaxPrice = 999999.99

	// DefaultPrice is used when the model returns an unparsable price.
	DefaultPrice = 9.99

	fallbackTitle       = "Item for Sale"
	fallbackDescription = "<p>Item in good condition. Please see photos for details.</p>"
)

// Aspects maps an aspect (item specific) name to its values.
type Aspects map[string][]string

// Clone returns a deep copy of the aspects map.
func (a Aspects) Clone() Aspects {
	out := make(Aspects, len(a))
	for k, v := range a {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// RawAnalysis is the model's reply as decoded from its JSON output. Every
// field is typed loosely because the model does not reliably honor the
// response schema: prices arrive as strings, aspect values as scalars, and so
// on. Treat it as hostile input.
type RawAnalysis struct {
	Title            any            `json:"title"`
	Description      any            `json:"description"`
	Price            any            `json:"price"`
	Condition        any            `json:"condition"`
	Aspects          map[string]any `json:"aspects"`
	CategoryKeywords any            `json:"category_keywords"`
}

// NormalizedListing is a RawAnalysis clamped into the shapes and ranges the
// eBay APIs accept. All fields are guaranteed present and in bounds.
type NormalizedListing struct {
	Title            string
	Description      string
	Price            float64
	Condition        Condition
	Aspects          Aspects
	CategoryKeywords string
}

// Normalize converts a raw model reply into a valid listing, substituting
// documented defaults for anything malformed or missing. It is total: it
// never fails, whatever the input, and normalizing an already normalized
// listing is a no-op.
func Normalize(raw RawAnalysis) NormalizedListing {
	return NormalizedListing{
		Title:            normalizeTitle(raw.Title),
		Description:      normalizeDescription(raw.Description),
		Price:            normalizePrice(raw.Price),
		Condition:        NormalizeCondition(coerceString(raw.Condition)),
		Aspects:          normalizeAspects(raw.Aspects),
		CategoryKeywords: strings.TrimSpace(coerceString(raw.CategoryKeywords)),
	}
}

func normalizeTitle(v any) string {
	title := coerceString(v)
	if r := []rune(title); len(r) > MaxTitleLen {
		title = string(r[:MaxTitleLen])
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return fallbackTitle
	}
	return title
}

func normalizeDescription(v any) string {
	desc := strings.TrimSpace(coerceString(v))
	if desc == "" {
		return fallbackDescription
	}
	return desc
}

func normalizePrice(v any) float64 {
	price, ok := coerceFloat(v)
	if !ok {
		price = DefaultPrice
	}
	price = math.Round(price*100) / 100
	return math.Max(MinPrice, math.Min(MaxPrice, price))
}

func normalizeAspects(raw map[string]any) Aspects {
	aspects := make(Aspects)
	for key, value := range raw {
		if value == nil {
			continue
		}
		var values []string
		if list, ok := value.([]any); ok {
			for _, v := range list {
				if s := strings.TrimSpace(coerceString(v)); s != "" {
					values = append(values, s)
				}
			}
		} else if s := strings.TrimSpace(coerceString(value)); s != "" {
			values = []string{s}
		}
		name := strings.TrimSpace(key)
		if name != "" && len(values) > 0 {
			aspects[name] = values
		}
	}
	return aspects
}

// coerceString renders any JSON value as a string the way the model meant it:
// numbers without an exponent, nil as empty.
func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(v)
	}
}

func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
