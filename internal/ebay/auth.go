package ebay

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	// TokenURL is eBay's OAuth2 token endpoint.
	TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"

	// inventoryScope covers everything this app calls.
	inventoryScope = "https://api.ebay.com/oauth/api_scope/sell.inventory"

	// expiryMargin is subtracted from the reported token lifetime so a token
	// is never used right at its edge.
	expiryMargin = 2 * time.Minute

	// bootstrapLeash is the assumed lifetime of a token supplied directly
	// via configuration; short, so the refresh flow takes over quickly.
	bootstrapLeash = 5 * time.Minute
)

// TokenSource mints eBay access tokens from a refresh token and caches the
// result until near expiry. Safe for concurrent use. The clock is injectable
// for tests.
type TokenSource struct {
	clientID     string
	clientSecret string
	refreshToken string
	tokenURL     string

	httpClient *resty.Client
	now        func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// TokenSourceOpts configures a TokenSource.
type TokenSourceOpts struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// AccessToken optionally seeds the cache so the service can run before
	// the first refresh; it is assumed to expire within minutes.
	AccessToken string

	// TokenURL overrides the production endpoint (for tests).
	TokenURL string

	// Now overrides the clock (for tests).
	Now func() time.Time
}

// NewTokenSource creates a token source. ClientID, ClientSecret and
// RefreshToken are required for the refresh flow.
func NewTokenSource(opts TokenSourceOpts) *TokenSource {
	ts := &TokenSource{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		refreshToken: opts.RefreshToken,
		tokenURL:     TokenURL,
		httpClient:   resty.New().SetTimeout(30 * time.Second),
		now:          time.Now,
	}
	if opts.TokenURL != "" {
		ts.tokenURL = opts.TokenURL
	}
	if opts.Now != nil {
		ts.now = opts.Now
	}
	if opts.AccessToken != "" {
		ts.token = &oauth2.Token{
			AccessToken: opts.AccessToken,
			Expiry:      ts.now().Add(bootstrapLeash),
		}
	}
	return ts
}

// Token returns a valid access token, refreshing it when the cached one is
// missing or near expiry.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != nil && ts.now().Before(ts.token.Expiry) {
		return ts.token.AccessToken, nil
	}
	return ts.refresh(ctx)
}

func (ts *TokenSource) refresh(ctx context.Context) (string, error) {
	if ts.clientID == "" || ts.clientSecret == "" || ts.refreshToken == "" {
		return "", configErrorf("missing eBay OAuth credentials (client ID, client secret, refresh token)")
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}

	res, err := ts.httpClient.R().
		SetContext(ctx).
		SetBasicAuth(ts.clientID, ts.clientSecret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": ts.refreshToken,
			"scope":         inventoryScope,
		}).
		SetResult(&result).
		Post(ts.tokenURL)
	if err != nil {
		return "", &GatewayError{Op: "token refresh", Message: err.Error()}
	}
	if res.IsError() {
		return "", &GatewayError{Op: "token refresh", StatusCode: res.StatusCode(), Message: string(res.Body())}
	}
	if result.AccessToken == "" {
		return "", &GatewayError{Op: "token refresh", StatusCode: res.StatusCode(), Message: "no access_token in response"}
	}

	expiresIn := result.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 7200
	}
	ts.token = &oauth2.Token{
		AccessToken: result.AccessToken,
		Expiry:      ts.now().Add(time.Duration(expiresIn)*time.Second - expiryMargin),
	}
	log.Debug().Time("expiry", ts.token.Expiry).Msg("refreshed eBay access token")
	return ts.token.AccessToken, nil
}
