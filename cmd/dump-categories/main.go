// dump-categories fetches the full eBay category tree over the Trading API
// and writes the categories JSON file the service matches against.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ramvolt/ebay-lister/internal/config"
	"github.com/ramvolt/ebay-lister/internal/ebay"
)

const subtreeLevelLimit = 12

// politeness pause between subtree fetches
const fetchPause = 300 * time.Millisecond

type dump struct {
	SiteID     string              `json:"siteId"`
	Count      int                 `json:"count"`
	Categories []ebay.TreeCategory `json:"categories"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	out := flag.String("out", "categories.json", "output file")
	flag.Parse()

	config.LoadEnvFile()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	tokens := ebay.NewTokenSource(ebay.TokenSourceOpts{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RefreshToken: cfg.RefreshToken,
		AccessToken:  cfg.AccessToken,
	})
	client := ebay.NewTradingClient(tokens, ebay.TradingClientOpts{})

	log.Info().Msg("fetching top-level categories")
	top, err := client.GetCategories(ctx, "-1", 1)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to fetch top-level categories")
	}
	log.Info().Int("count", len(top)).Msg("top-level categories")

	all := make(map[string]ebay.TreeCategory)
	for _, t := range top {
		if t.ID == "-1" {
			continue
		}
		log.Info().Str("id", t.ID).Str("name", t.Name).Msg("pulling subtree")
		subtree, err := client.GetCategories(ctx, t.ID, subtreeLevelLimit)
		if err != nil {
			log.Fatal().Err(err).Str("id", t.ID).Msg("failed to fetch subtree")
		}
		for _, c := range subtree {
			if c.ID == t.ID {
				continue
			}
			all[c.ID] = c
		}

		all[t.ID] = ebay.TreeCategory{ID: t.ID, Name: t.Name, ParentID: "-1", Level: 1}

		time.Sleep(fetchPause)
	}

	categories := make([]ebay.TreeCategory, 0, len(all))
	for _, c := range all {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		a, _ := strconv.Atoi(categories[i].ID)
		b, _ := strconv.Atoi(categories[j].ID)
		return a < b
	})

	data, err := json.MarshalIndent(dump{
		SiteID:     ebay.SiteIDUK,
		Count:      len(categories),
		Categories: categories,
	}, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to marshal categories")
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		log.Fatal().Err(err).Msg("failed to write output")
	}

	fmt.Printf("Wrote %s with %d categories\n", *out, len(categories))
}
