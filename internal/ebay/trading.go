package ebay

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	// TradingAPIURL is the legacy XML Trading API endpoint.
	TradingAPIURL = "https://api.ebay.com/ws/api.dll"

	// SiteIDUK is the Trading API site ID for ebay.co.uk.
	SiteIDUK = "3"

	compatibilityLevel = "1147"

	// The Trading API throws intermittent 503s under load; a few linearly
	// backed off retries ride them out.
	tradingMaxAttempts = 5
	tradingBackoffStep = 1500 * time.Millisecond
	tradingCallTimeout = 60 * time.Second
)

// TradingClientOpts configures a Trading API client.
type TradingClientOpts struct {
	// BaseURL overrides the production endpoint (for tests).
	BaseURL string
	// SiteID selects the eBay site. Defaults to the UK site.
	SiteID string
	// Backoff overrides the retry backoff step (for tests).
	Backoff time.Duration
}

// TradingClient calls the legacy XML Trading API: picture uploads and the
// category tree live only there.
type TradingClient struct {
	httpClient *resty.Client
	tokens     *TokenSource
	baseURL    string
	siteID     string
	backoff    time.Duration
}

// NewTradingClient creates a Trading API client.
func NewTradingClient(tokens *TokenSource, opts TradingClientOpts) *TradingClient {
	c := &TradingClient{
		httpClient: resty.New().SetTimeout(tradingCallTimeout),
		tokens:     tokens,
		baseURL:    TradingAPIURL,
		siteID:     SiteIDUK,
		backoff:    tradingBackoffStep,
	}
	if opts.BaseURL != "" {
		c.baseURL = opts.BaseURL
	}
	if opts.SiteID != "" {
		c.siteID = opts.SiteID
	}
	if opts.Backoff != 0 {
		c.backoff = opts.Backoff
	}
	return c
}

// call posts one Trading API request, retrying 503s with linear backoff.
// Other HTTP errors are not retried.
func (c *TradingClient) call(ctx context.Context, callName, body string) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	var res *resty.Response
	for attempt := 1; attempt <= tradingMaxAttempts; attempt++ {
		res, err = c.httpClient.NewRequest().
			SetContext(ctx).
			SetHeaders(map[string]string{
				"X-EBAY-API-CALL-NAME":           callName,
				"X-EBAY-API-SITEID":              c.siteID,
				"X-EBAY-API-COMPATIBILITY-LEVEL": compatibilityLevel,
				"X-EBAY-API-IAF-TOKEN":           token,
				"Content-Type":                   "text/xml; charset=utf-8",
			}).
			SetBody(body).
			Post(c.baseURL)
		if err != nil {
			return nil, &GatewayError{Op: callName, Message: err.Error()}
		}
		if res.StatusCode() == 503 && attempt < tradingMaxAttempts {
			wait := time.Duration(attempt) * c.backoff
			log.Warn().Str("call", callName).Int("attempt", attempt).Dur("wait", wait).
				Msg("trading api unavailable, retrying")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		break
	}

	if res.IsError() {
		return nil, &GatewayError{Op: callName, StatusCode: res.StatusCode(), Message: string(res.Body())}
	}
	return res.Body(), nil
}

type tradingErrors struct {
	LongMessage string `xml:"LongMessage"`
}

type uploadPicturesResponse struct {
	Ack     string          `xml:"Ack"`
	Errors  []tradingErrors `xml:"Errors"`
	Details struct {
		FullURL string `xml:"FullURL"`
	} `xml:"SiteHostedPictureDetails"`
}

// UploadPicture uploads image bytes to eBay Picture Services and returns the
// hosted URL usable in listings.
func (c *TradingClient) UploadPicture(ctx context.Context, imageData []byte, name string) (string, error) {
	body := fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<UploadSiteHostedPicturesRequest xmlns="urn:ebay:apis:eBLBaseComponents">
    <WarningLevel>High</WarningLevel>
    <PictureData>%s</PictureData>
    <PictureName>%s</PictureName>
    <PictureSet>Supersize</PictureSet>
</UploadSiteHostedPicturesRequest>`,
		base64.StdEncoding.EncodeToString(imageData), escapeXML(name))

	log.Info().Str("name", name).Int("bytes", len(imageData)).Msg("uploading picture to EPS")
	raw, err := c.call(ctx, "UploadSiteHostedPictures", body)
	if err != nil {
		return "", err
	}

	var resp uploadPicturesResponse
	if err := xml.Unmarshal(raw, &resp); err != nil {
		return "", &GatewayError{Op: "UploadSiteHostedPictures", Message: "invalid XML response: " + err.Error()}
	}
	if resp.Ack == "Failure" || resp.Ack == "PartialFailure" {
		msg := "unknown error"
		if len(resp.Errors) > 0 && resp.Errors[0].LongMessage != "" {
			msg = resp.Errors[0].LongMessage
		}
		return "", &GatewayError{Op: "UploadSiteHostedPictures", Message: msg}
	}
	if resp.Details.FullURL == "" {
		return "", &GatewayError{Op: "UploadSiteHostedPictures", Message: "no image URL in response"}
	}

	log.Info().Str("url", resp.Details.FullURL).Msg("picture hosted")
	return resp.Details.FullURL, nil
}

// TreeCategory is one node of the Trading API category tree.
type TreeCategory struct {
	ID       string `xml:"CategoryID" json:"id"`
	Name     string `xml:"CategoryName" json:"name"`
	ParentID string `xml:"CategoryParentID" json:"parentId,omitempty"`
	Level    int    `xml:"CategoryLevel" json:"level,omitempty"`
	Leaf     bool   `xml:"LeafCategory" json:"leaf"`
}

type getCategoriesResponse struct {
	Ack        string         `xml:"Ack"`
	Categories []TreeCategory `xml:"CategoryArray>Category"`
}

// GetCategories fetches the category subtree under parentID down to
// levelLimit levels. parentID "-1" with levelLimit 1 yields the top-level
// categories.
func (c *TradingClient) GetCategories(ctx context.Context, parentID string, levelLimit int) ([]TreeCategory, error) {
	body := fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<GetCategoriesRequest xmlns="urn:ebay:apis:eBLBaseComponents">
  <CategorySiteID>%s</CategorySiteID>
  <CategoryParent>%s</CategoryParent>
  <LevelLimit>%d</LevelLimit>
  <ViewAllNodes>true</ViewAllNodes>
  <DetailLevel>ReturnAll</DetailLevel>
</GetCategoriesRequest>`, escapeXML(c.siteID), escapeXML(parentID), levelLimit)

	raw, err := c.call(ctx, "GetCategories", body)
	if err != nil {
		return nil, err
	}

	var resp getCategoriesResponse
	if err := xml.Unmarshal(raw, &resp); err != nil {
		return nil, &GatewayError{Op: "GetCategories", Message: "invalid XML response: " + err.Error()}
	}
	if ack := strings.ToLower(resp.Ack); ack != "success" && ack != "warning" && ack != "successwithwarning" {
		return nil, &GatewayError{Op: "GetCategories", Message: "unexpected ack: " + resp.Ack}
	}
	return resp.Categories, nil
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
