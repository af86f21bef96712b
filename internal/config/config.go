// Package config loads service configuration from the environment, with an
// optional .env file for development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	// eBay OAuth credentials
	ClientID     string
	ClientSecret string
	RefreshToken string
	// AccessToken optionally bootstraps the first few minutes before the
	// refresh flow takes over.
	AccessToken string

	MarketplaceID string

	// Business policies, required before an offer can be created.
	PaymentPolicyID     string
	ReturnPolicyID      string
	FulfillmentPolicyID string
	MerchantLocationKey string

	// DefaultCategoryID is the fallback when keyword matching finds nothing.
	DefaultCategoryID string
	// CategoriesPath is the category catalog JSON file.
	CategoriesPath string

	// ForceDrafts stops the flow after offer creation so nothing goes live.
	ForceDrafts bool

	Port   int
	DBPath string

	// VisionProvider selects the analyzer backend: "openai" or "gemini".
	VisionProvider string
}

// LoadEnvFile loads a .env file from the working directory. Errors are
// ignored since the file may not exist.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Load reads the configuration from the environment. Credentials are not
// validated here: a missing refresh token only matters once an API call is
// attempted, and the draft-only flow should work without policies.
func Load() (*Config, error) {
	cfg := &Config{
		ClientID:     os.Getenv("EBAY_CLIENT_ID"),
		ClientSecret: os.Getenv("EBAY_CLIENT_SECRET"),
		RefreshToken: os.Getenv("EBAY_REFRESH_TOKEN"),
		AccessToken:  os.Getenv("EBAY_ACCESS_TOKEN"),

		MarketplaceID: getenvDefault("EBAY_MARKETPLACE_ID", "EBAY_GB"),

		PaymentPolicyID:     os.Getenv("EBAY_PAYMENT_POLICY_ID"),
		ReturnPolicyID:      os.Getenv("EBAY_RETURN_POLICY_ID"),
		FulfillmentPolicyID: os.Getenv("EBAY_FULFILLMENT_POLICY_ID"),
		MerchantLocationKey: os.Getenv("EBAY_MERCHANT_LOCATION_KEY"),

		DefaultCategoryID: os.Getenv("DEFAULT_CATEGORY_ID"),
		CategoriesPath:    getenvDefault("EBAY_CATEGORIES_JSON", "categories.json"),

		DBPath: getenvDefault("LISTER_DB_PATH", "lister.db"),

		VisionProvider: getenvDefault("VISION_PROVIDER", "openai"),
	}

	forceDrafts, err := parseBool("FORCE_DRAFTS", true)
	if err != nil {
		return nil, err
	}
	cfg.ForceDrafts = forceDrafts

	port, err := parseInt("PORT", 5001)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
	return b, nil
}

func parseInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}
