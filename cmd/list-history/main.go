// list-history prints the most recently created listings from the local log.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ramvolt/ebay-lister/internal/config"
	"github.com/ramvolt/ebay-lister/internal/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	limit := flag.Int("n", 20, "number of listings to show")
	flag.Parse()

	config.LoadEnvFile()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("dbPath", cfg.DBPath).Msg("failed to open listing log")
	}
	defer store.Close()

	records, err := store.ListRecent(*limit)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read listings")
	}
	if len(records) == 0 {
		fmt.Println("No listings recorded yet.")
		return
	}

	for _, r := range records {
		status := "draft"
		if r.ListingID != "" {
			status = "live (" + r.ListingID + ")"
		}
		fmt.Printf("%s  %-22s  £%-9.2f  cat %-8s  %-20s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.SKU, r.Price, r.CategoryID, r.Condition, status)
		fmt.Printf("    %s\n", r.Title)
	}
}
