package ebay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSource_RefreshAndCache(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "refresh-1", r.PostForm.Get("refresh_token"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-1", user)
		assert.Equal(t, "secret-1", pass)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-1",
			"expires_in":   7200,
		})
	}))
	defer srv.Close()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := NewTokenSource(TokenSourceOpts{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RefreshToken: "refresh-1",
		TokenURL:     srv.URL,
		Now:          func() time.Time { return now },
	})

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
	assert.Equal(t, 1, calls)

	// well within the lifetime: cached
	now = now.Add(time.Hour)
	token, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
	assert.Equal(t, 1, calls)

	// inside the expiry margin: refreshed again
	now = now.Add(time.Hour + 1*time.Minute)
	_, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTokenSource_SeededAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"access_token": "refreshed"})
	}))
	defer srv.Close()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := NewTokenSource(TokenSourceOpts{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RefreshToken: "refresh-1",
		AccessToken:  "seeded",
		TokenURL:     srv.URL,
		Now:          func() time.Time { return now },
	})

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seeded", token)

	// the seed is trusted only briefly
	now = now.Add(10 * time.Minute)
	token, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed", token)
}

func TestTokenSource_MissingCredentials(t *testing.T) {
	ts := NewTokenSource(TokenSourceOpts{ClientID: "client-1"})
	_, err := ts.Token(context.Background())
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestTokenSource_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	ts := NewTokenSource(TokenSourceOpts{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RefreshToken: "expired",
		TokenURL:     srv.URL,
	})

	_, err := ts.Token(context.Background())
	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, http.StatusBadRequest, gerr.StatusCode)
	assert.Contains(t, gerr.Message, "invalid_grant")
}
