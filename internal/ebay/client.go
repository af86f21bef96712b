// Package ebay talks to eBay's seller APIs: the REST Inventory API for
// inventory items and offers, and the legacy XML Trading API for picture
// hosting and the category tree.
package ebay

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	// APIBaseURL is eBay's production API host.
	APIBaseURL = "https://api.ebay.com"

	inventoryBasePath = "/sell/inventory/v1"
)

// ClientOpts configures an Inventory API client.
type ClientOpts struct {
	// BaseURL overrides the production host (for tests).
	BaseURL string
	// MarketplaceID selects the marketplace, e.g. EBAY_GB. Defaults to
	// EBAY_GB.
	MarketplaceID string
}

// Client calls the REST Inventory API. Tokens come from the TokenSource per
// request so a refresh mid-process is transparent.
type Client struct {
	httpClient    *resty.Client
	tokens        *TokenSource
	marketplaceID string
}

// NewClient creates an Inventory API client.
func NewClient(tokens *TokenSource, opts ClientOpts) *Client {
	baseURL := APIBaseURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	marketplaceID := opts.MarketplaceID
	if marketplaceID == "" {
		marketplaceID = "EBAY_GB"
	}

	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL + inventoryBasePath).
			SetHeader("Accept", "application/json"),
		tokens:        tokens,
		marketplaceID: marketplaceID,
	}
}

// MarketplaceID returns the marketplace this client lists on.
func (c *Client) MarketplaceID() string {
	return c.marketplaceID
}

func (c *Client) req(ctx context.Context, result any) (*resty.Request, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	request := c.httpClient.NewRequest().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("Content-Type", "application/json").
		SetHeader("Content-Language", contentLanguageFor(c.marketplaceID))

	if result != nil {
		request.SetResult(result)
	}
	return request, nil
}

// checkResponse turns a failing response (>399) into a GatewayError with the
// upstream status and body preserved. Without this, failing responses would
// have nil error.
func checkResponse(op string, res *resty.Response, err error) error {
	if err != nil {
		return &GatewayError{Op: op, Message: err.Error()}
	}
	if res.IsError() {
		return &GatewayError{Op: op, StatusCode: res.StatusCode(), Message: string(res.Body())}
	}
	return nil
}

// CreateOrReplaceInventoryItem upserts an inventory item by SKU. The call is
// idempotent: repeating it with the same SKU replaces the item.
func (c *Client) CreateOrReplaceInventoryItem(ctx context.Context, item InventoryItem) error {
	req, err := c.req(ctx, nil)
	if err != nil {
		return err
	}

	log.Info().Str("sku", item.SKU).Msg("upserting inventory item")
	res, err := req.
		SetBody(item).
		Put("/inventory_item/" + url.PathEscape(item.SKU))
	return checkResponse("inventory item upsert", res, err)
}

// OfferResponse is the Inventory API's reply to offer creation.
type OfferResponse struct {
	OfferID string `json:"offerId"`
}

// CreateOffer creates a draft offer for a SKU and returns its offer ID.
func (c *Client) CreateOffer(ctx context.Context, offer Offer) (OfferResponse, error) {
	var result OfferResponse
	req, err := c.req(ctx, &result)
	if err != nil {
		return OfferResponse{}, err
	}

	log.Info().Str("sku", offer.SKU).Str("categoryId", offer.CategoryID).Msg("creating offer")
	res, err := req.
		SetBody(offer).
		Post("/offer")
	if err := checkResponse("create offer", res, err); err != nil {
		return OfferResponse{}, err
	}
	return result, nil
}

// PublishResponse is the Inventory API's reply to publishing an offer.
type PublishResponse struct {
	ListingID string `json:"listingId"`
}

// PublishOffer makes a draft offer live and returns the listing ID.
func (c *Client) PublishOffer(ctx context.Context, offerID string) (PublishResponse, error) {
	var result PublishResponse
	req, err := c.req(ctx, &result)
	if err != nil {
		return PublishResponse{}, err
	}

	log.Info().Str("offerId", offerID).Msg("publishing offer")
	res, err := req.Post(fmt.Sprintf("/offer/%s/publish", url.PathEscape(offerID)))
	if err := checkResponse("publish offer", res, err); err != nil {
		return PublishResponse{}, err
	}
	return result, nil
}

// Address is a merchant location street address.
type Address struct {
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

// Location is the Inventory API merchant location payload.
type Location struct {
	Location struct {
		Address Address `json:"address"`
	} `json:"location"`
	Name                   string   `json:"name"`
	MerchantLocationStatus string   `json:"merchantLocationStatus"`
	LocationTypes          []string `json:"locationTypes"`
}

// NewWarehouseLocation builds an enabled warehouse location.
func NewWarehouseLocation(name string, address Address) Location {
	loc := Location{
		Name:                   name,
		MerchantLocationStatus: "ENABLED",
		LocationTypes:          []string{"WAREHOUSE"},
	}
	loc.Location.Address = address
	return loc
}

// CreateLocation registers a merchant location under the given key. Needed
// once per account before offers can reference the key.
func (c *Client) CreateLocation(ctx context.Context, key string, location Location) error {
	req, err := c.req(ctx, nil)
	if err != nil {
		return err
	}

	log.Info().Str("key", key).Msg("creating merchant location")
	res, err := req.
		SetBody(location).
		Put("/location/" + url.PathEscape(key))
	return checkResponse("create location", res, err)
}
