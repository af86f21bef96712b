// Package server is the HTTP surface: photo upload, analysis and listing
// endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ramvolt/ebay-lister/internal/category"
	"github.com/ramvolt/ebay-lister/internal/config"
	"github.com/ramvolt/ebay-lister/internal/ebay"
	"github.com/ramvolt/ebay-lister/internal/storage"
	"github.com/ramvolt/ebay-lister/internal/vision"
)

// maxUploadBytes bounds a multipart upload; generous so several phone photos
// fit in one request.
const maxUploadBytes = 200 << 20

// InventoryAPI is the slice of the Inventory client the handlers use.
type InventoryAPI interface {
	CreateOrReplaceInventoryItem(ctx context.Context, item ebay.InventoryItem) error
	CreateOffer(ctx context.Context, offer ebay.Offer) (ebay.OfferResponse, error)
	PublishOffer(ctx context.Context, offerID string) (ebay.PublishResponse, error)
	MarketplaceID() string
}

// PictureUploader uploads an image and returns its hosted URL.
type PictureUploader interface {
	UploadPicture(ctx context.Context, imageData []byte, name string) (string, error)
}

// Server wires the analyzer, the category catalog and the eBay clients into
// HTTP handlers.
type Server struct {
	analyzer  vision.Analyzer
	catalog   *category.Catalog
	inventory InventoryAPI
	pictures  PictureUploader
	store     storage.Store
	cfg       *config.Config

	now func() time.Time
}

// New creates a Server. store may be nil, in which case nothing is recorded.
func New(
	analyzer vision.Analyzer,
	catalog *category.Catalog,
	inventory InventoryAPI,
	pictures PictureUploader,
	store storage.Store,
	cfg *config.Config,
) *Server {
	return &Server{
		analyzer:  analyzer,
		catalog:   catalog,
		inventory: inventory,
		pictures:  pictures,
		store:     store,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/create", s.handleCreate)
	mux.HandleFunc("POST /api/publish/{offerID}", s.handlePublish)
	return mux
}

// generateSKU returns a unique inventory SKU.
func (s *Server) generateSKU() string {
	return fmt.Sprintf("SKU-%d-%s", s.now().Unix(), uuid.NewString()[:8])
}
