// create-location registers the merchant inventory location offers reference
// by key. Needed once per account.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ramvolt/ebay-lister/internal/config"
	"github.com/ramvolt/ebay-lister/internal/ebay"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	key := flag.String("key", "warehouse1", "merchant location key")
	name := flag.String("name", "Main Warehouse", "location name")
	addressLine := flag.String("address", "", "street address")
	city := flag.String("city", "", "city")
	postalCode := flag.String("postcode", "", "postal code")
	country := flag.String("country", "GB", "ISO country code")
	flag.Parse()

	if *addressLine == "" || *city == "" || *postalCode == "" {
		log.Fatal().Msg("-address, -city and -postcode are required")
	}

	config.LoadEnvFile()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	tokens := ebay.NewTokenSource(ebay.TokenSourceOpts{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RefreshToken: cfg.RefreshToken,
		AccessToken:  cfg.AccessToken,
	})

	location := ebay.NewWarehouseLocation(*name, ebay.Address{
		AddressLine1: *addressLine,
		City:         *city,
		PostalCode:   *postalCode,
		Country:      *country,
	})

	ctx := context.Background()

	// Some UK accounts only accept the location payload with en-US, so try
	// the configured marketplace first and fall back to EBAY_US.
	for _, marketplace := range []string{cfg.MarketplaceID, "EBAY_US"} {
		client := ebay.NewClient(tokens, ebay.ClientOpts{MarketplaceID: marketplace})
		err = client.CreateLocation(ctx, *key, location)
		if err == nil {
			log.Info().Str("key", *key).Str("marketplace", marketplace).Msg("location created")
			return
		}
		log.Warn().Err(err).Str("marketplace", marketplace).Msg("location create attempt failed")
	}
	log.Fatal().Err(err).Msg("failed to create location")
}
