package ebay

import (
	"fmt"

	"github.com/ramvolt/ebay-lister/internal/listing"
)

const maxDescriptionLen = 40000

// Product is the product block of an inventory item.
type Product struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ImageURLs   []string            `json:"imageUrls"`
	Brand       string              `json:"brand,omitempty"`
	MPN         string              `json:"mpn,omitempty"`
	Aspects     map[string][]string `json:"aspects,omitempty"`
}

// InventoryItem is the Inventory API inventory_item payload, upserted by SKU.
type InventoryItem struct {
	SKU          string       `json:"sku"`
	Condition    string       `json:"condition"`
	Product      Product      `json:"product"`
	Availability Availability `json:"availability"`
}

type Availability struct {
	ShipToLocationAvailability ShipToLocationAvailability `json:"shipToLocationAvailability"`
}

type ShipToLocationAvailability struct {
	Quantity int `json:"quantity"`
}

// Offer is the Inventory API offer payload binding a SKU to a priced,
// categorized listing.
type Offer struct {
	SKU               string          `json:"sku"`
	MarketplaceID     string          `json:"marketplaceId"`
	Format            string          `json:"format"`
	AvailableQuantity int             `json:"availableQuantity"`
	CategoryID        string          `json:"categoryId"`
	PricingSummary    PricingSummary  `json:"pricingSummary"`
	ListingPolicies   ListingPolicies `json:"listingPolicies"`
	MerchantLocation  string          `json:"merchantLocationKey"`
}

type PricingSummary struct {
	Price Price `json:"price"`
}

type Price struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type ListingPolicies struct {
	PaymentPolicyID     string `json:"paymentPolicyId"`
	ReturnPolicyID      string `json:"returnPolicyId"`
	FulfillmentPolicyID string `json:"fulfillmentPolicyId"`
}

// PolicyIDs are the seller's business policy identifiers, all required for
// an offer.
type PolicyIDs struct {
	Payment     string
	Return      string
	Fulfillment string
}

// InventoryItemParams collects everything needed to build an inventory item.
type InventoryItemParams struct {
	SKU         string
	Title       string
	Description string
	Quantity    int
	ImageURLs   []string
	Condition   listing.Condition
	Brand       string
	MPN         string
	Aspects     listing.Aspects
}

// BuildInventoryItem assembles the inventory item payload. At least one image
// URL is required. When a brand is present (given explicitly or promoted
// from the Brand aspect) an MPN must accompany it; "Does Not Apply" is the
// accepted placeholder. A promoted Brand aspect is removed from the aspects
// block so it does not appear twice.
func BuildInventoryItem(p InventoryItemParams) (InventoryItem, error) {
	if len(p.ImageURLs) == 0 {
		return InventoryItem{}, validationErrorf("image_urls is empty; at least one public URL is required")
	}

	title := p.Title
	if r := []rune(title); len(r) > listing.MaxTitleLen {
		title = string(r[:listing.MaxTitleLen])
	}
	description := p.Description
	if len(description) > maxDescriptionLen {
		description = description[:maxDescriptionLen]
	}

	product := Product{
		Title:       title,
		Description: description,
		ImageURLs:   p.ImageURLs,
	}

	brand := p.Brand
	if brand == "" {
		if values := p.Aspects["Brand"]; len(values) > 0 && values[0] != "" {
			brand = values[0]
		}
	}
	if brand != "" {
		product.Brand = brand
		product.MPN = p.MPN
		if product.MPN == "" {
			product.MPN = "Does Not Apply"
		}
	} else if p.MPN != "" {
		product.MPN = p.MPN
	}

	if len(p.Aspects) > 0 {
		aspects := make(map[string][]string)
		for name, values := range p.Aspects {
			if name == "Brand" && product.Brand != "" {
				continue
			}
			if len(values) > 0 {
				aspects[name] = values
			}
		}
		if len(aspects) > 0 {
			product.Aspects = aspects
		}
	}

	quantity := p.Quantity
	if quantity < 0 {
		quantity = 0
	}

	return InventoryItem{
		SKU:       p.SKU,
		Condition: string(p.Condition),
		Product:   product,
		Availability: Availability{
			ShipToLocationAvailability: ShipToLocationAvailability{Quantity: quantity},
		},
	}, nil
}

// OfferParams collects everything needed to build an offer.
type OfferParams struct {
	SKU              string
	Price            float64
	CategoryID       string
	MarketplaceID    string
	Policies         PolicyIDs
	MerchantLocation string
}

// BuildOffer assembles the offer payload. The category, all three policy IDs
// and the merchant location key must be present; their absence is a
// configuration problem that should surface before any network call.
func BuildOffer(p OfferParams) (Offer, error) {
	if p.CategoryID == "" {
		return Offer{}, configErrorf("category_id is required and no default category is set")
	}
	for name, id := range map[string]string{
		"paymentPolicyId":     p.Policies.Payment,
		"returnPolicyId":      p.Policies.Return,
		"fulfillmentPolicyId": p.Policies.Fulfillment,
	} {
		if id == "" {
			return Offer{}, configErrorf("missing required policy: %s", name)
		}
	}
	if p.MerchantLocation == "" {
		return Offer{}, configErrorf("missing merchant location key")
	}

	marketplace := p.MarketplaceID
	if marketplace == "" {
		marketplace = "EBAY_GB"
	}

	return Offer{
		SKU:               p.SKU,
		MarketplaceID:     marketplace,
		Format:            "FIXED_PRICE",
		AvailableQuantity: 1,
		CategoryID:        p.CategoryID,
		PricingSummary: PricingSummary{
			Price: Price{
				Value:    fmt.Sprintf("%.2f", p.Price),
				Currency: currencyFor(marketplace),
			},
		},
		ListingPolicies: ListingPolicies{
			PaymentPolicyID:     p.Policies.Payment,
			ReturnPolicyID:      p.Policies.Return,
			FulfillmentPolicyID: p.Policies.Fulfillment,
		},
		MerchantLocation: p.MerchantLocation,
	}, nil
}

var marketplaceCurrencies = map[string]string{
	"EBAY_GB": "GBP",
	"EBAY_US": "USD",
	"EBAY_AU": "AUD",
	"EBAY_DE": "EUR",
	"EBAY_FR": "EUR",
	"EBAY_IT": "EUR",
	"EBAY_ES": "EUR",
}

func currencyFor(marketplaceID string) string {
	if c, ok := marketplaceCurrencies[marketplaceID]; ok {
		return c
	}
	return "GBP"
}

var marketplaceLanguages = map[string]string{
	"EBAY_GB": "en-GB",
	"EBAY_US": "en-US",
	"EBAY_AU": "en-AU",
	"EBAY_DE": "de-DE",
	"EBAY_FR": "fr-FR",
	"EBAY_IT": "it-IT",
	"EBAY_ES": "es-ES",
}

// contentLanguageFor maps a marketplace ID to the Content-Language header
// value the Inventory API expects.
func contentLanguageFor(marketplaceID string) string {
	if lang, ok := marketplaceLanguages[marketplaceID]; ok {
		return lang
	}
	return "en-GB"
}
