package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "EBAY_GB", cfg.MarketplaceID)
	assert.Equal(t, "categories.json", cfg.CategoriesPath)
	assert.True(t, cfg.ForceDrafts)
	assert.Equal(t, 5001, cfg.Port)
	assert.Equal(t, "openai", cfg.VisionProvider)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("EBAY_CLIENT_ID", "client-1")
	t.Setenv("EBAY_MARKETPLACE_ID", "EBAY_US")
	t.Setenv("FORCE_DRAFTS", "false")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "client-1", cfg.ClientID)
	assert.Equal(t, "EBAY_US", cfg.MarketplaceID)
	assert.False(t, cfg.ForceDrafts)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := Load()
	assert.ErrorContains(t, err, "PORT")

	t.Setenv("PORT", "")
	t.Setenv("FORCE_DRAFTS", "maybe")
	_, err = Load()
	assert.ErrorContains(t, err, "FORCE_DRAFTS")
}
