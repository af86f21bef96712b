package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ramvolt/ebay-lister/internal/category"
	"github.com/ramvolt/ebay-lister/internal/ebay"
	"github.com/ramvolt/ebay-lister/internal/listing"
	"github.com/ramvolt/ebay-lister/internal/storage"
	"github.com/ramvolt/ebay-lister/internal/vision"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": "1.0.0"})
}

// handleUpload is the main flow: photos in, draft listing out.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	images, err := readUploadedImages(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	categoryOverride := strings.TrimSpace(r.FormValue("category_id"))
	priceOverride := strings.TrimSpace(r.FormValue("price_override"))
	titleOverride := strings.TrimSpace(r.FormValue("title_override"))
	itemType := listing.ParseItemType(r.FormValue("item_type"))

	raw, err := s.analyzer.AnalyzeImages(ctx, images, r.FormValue("category_hint"))
	if err != nil {
		log.Error().Err(err).Msg("image analysis failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	normalized := listing.Normalize(raw)
	condition := listing.ReconcileCondition(string(normalized.Condition), itemType)
	aspects := listing.ApplyRequiredAspects(normalized.Aspects, itemType)

	title := normalized.Title
	if titleOverride != "" {
		title = titleOverride
	}
	price := normalized.Price
	if priceOverride != "" {
		p, err := strconv.ParseFloat(priceOverride, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid price_override: %q", priceOverride))
			return
		}
		price = p
	}

	sku := s.generateSKU()

	imageURLs, err := s.uploadPictures(ctx, sku, images)
	if err != nil {
		log.Error().Err(err).Msg("picture upload failed")
		writeError(w, statusForError(err), err.Error())
		return
	}

	categoryID := categoryOverride
	if categoryID == "" {
		categoryID, err = s.catalog.BestCategoryID(
			title, aspects, normalized.CategoryKeywords, listing.DefaultCategoryID(itemType))
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
	}

	offerID, err := s.createListing(ctx, createParams{
		sku:         sku,
		title:       title,
		description: normalized.Description,
		price:       price,
		condition:   condition,
		categoryID:  categoryID,
		aspects:     aspects,
		imageURLs:   imageURLs,
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.record(&storage.ListingRecord{
		SKU:        sku,
		OfferID:    offerID,
		Title:      title,
		Price:      price,
		CategoryID: categoryID,
		Condition:  string(condition),
		ImageURL:   imageURLs[0],
	})

	note := "Listing created as draft."
	if s.cfg.ForceDrafts {
		note = "This is a DRAFT listing. It will not be published automatically."
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"message":     "Draft listing created successfully!",
		"sku":         sku,
		"offer_id":    offerID,
		"title":       title,
		"price":       price,
		"category_id": categoryID,
		"image_url":   imageURLs[0],
		"condition":   string(condition),
		"ai_analysis": map[string]any{
			"title":           normalized.Title,
			"description":     truncate(normalized.Description, 200),
			"aspects":         aspects,
			"suggested_price": normalized.Price,
		},
		"note": note,
	})
}

// handleAnalyze runs analysis and category suggestion without touching eBay.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	images, err := readUploadedImages(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	raw, err := s.analyzer.AnalyzeImages(r.Context(), images, r.FormValue("category_hint"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	itemType := listing.ParseItemType(r.FormValue("item_type"))
	normalized := listing.Normalize(raw)
	aspects := listing.ApplyRequiredAspects(normalized.Aspects, itemType)

	analysis := map[string]any{
		"title":             normalized.Title,
		"description":       normalized.Description,
		"price":             normalized.Price,
		"condition":         string(listing.ReconcileCondition(string(normalized.Condition), itemType)),
		"aspects":           aspects,
		"category_keywords": normalized.CategoryKeywords,
	}

	if categoryID, err := s.catalog.BestCategoryID(
		normalized.Title, aspects, normalized.CategoryKeywords, listing.DefaultCategoryID(itemType)); err == nil {
		analysis["suggested_category_id"] = categoryID
	} else {
		analysis["suggested_category_id"] = nil
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"analysis": analysis,
	})
}

// createRequest is the manual listing payload, no analysis involved.
type createRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Price       float64             `json:"price"`
	ImageURL    string              `json:"image_url"`
	CategoryID  string              `json:"category_id"`
	Condition   string              `json:"condition"`
	Aspects     map[string][]string `json:"aspects"`
	SKU         string              `json:"sku"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	var missing []string
	for field, value := range map[string]string{
		"title":       req.Title,
		"description": req.Description,
		"image_url":   req.ImageURL,
	} {
		if value == "" {
			missing = append(missing, field)
		}
	}
	if req.Price == 0 {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	categoryID := req.CategoryID
	if categoryID == "" {
		categoryID = s.cfg.DefaultCategoryID
	}
	if categoryID == "" {
		writeError(w, http.StatusBadRequest, "category_id required (or set DEFAULT_CATEGORY_ID)")
		return
	}

	condition := req.Condition
	if condition == "" {
		condition = string(listing.ConditionUsedGood)
	}
	sku := req.SKU
	if sku == "" {
		sku = s.generateSKU()
	}

	offerID, err := s.createListing(r.Context(), createParams{
		sku:         sku,
		title:       req.Title,
		description: req.Description,
		price:       req.Price,
		condition:   listing.NormalizeCondition(condition),
		categoryID:  categoryID,
		aspects:     listing.Aspects(req.Aspects),
		imageURLs:   []string{req.ImageURL},
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.record(&storage.ListingRecord{
		SKU:        sku,
		OfferID:    offerID,
		Title:      req.Title,
		Price:      req.Price,
		CategoryID: categoryID,
		Condition:  condition,
		ImageURL:   req.ImageURL,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"sku":      sku,
		"offer_id": offerID,
	})
}

// handlePublish makes a draft offer live. Refused while the service is
// configured drafts-only.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if s.cfg.ForceDrafts {
		writeError(w, http.StatusForbidden, "publishing is disabled (FORCE_DRAFTS=true)")
		return
	}

	offerID := r.PathValue("offerID")
	result, err := s.inventory.PublishOffer(r.Context(), offerID)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	if s.store != nil {
		records, err := s.store.ListRecent(100)
		if err == nil {
			for _, rec := range records {
				if rec.OfferID == offerID {
					if err := s.store.MarkPublished(rec.SKU, result.ListingID); err != nil {
						log.Warn().Err(err).Str("sku", rec.SKU).Msg("failed to mark listing published")
					}
					break
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Offer published successfully!",
		"listing_id": result.ListingID,
	})
}

type createParams struct {
	sku         string
	title       string
	description string
	price       float64
	condition   listing.Condition
	categoryID  string
	aspects     listing.Aspects
	imageURLs   []string
}

// createListing upserts the inventory item and creates a draft offer.
func (s *Server) createListing(ctx context.Context, p createParams) (string, error) {
	item, err := ebay.BuildInventoryItem(ebay.InventoryItemParams{
		SKU:         p.sku,
		Title:       p.title,
		Description: p.description,
		Quantity:    1,
		ImageURLs:   p.imageURLs,
		Condition:   p.condition,
		Aspects:     p.aspects,
	})
	if err != nil {
		return "", err
	}
	if err := s.inventory.CreateOrReplaceInventoryItem(ctx, item); err != nil {
		return "", err
	}

	offer, err := ebay.BuildOffer(ebay.OfferParams{
		SKU:           p.sku,
		Price:         p.price,
		CategoryID:    p.categoryID,
		MarketplaceID: s.inventory.MarketplaceID(),
		Policies: ebay.PolicyIDs{
			Payment:     s.cfg.PaymentPolicyID,
			Return:      s.cfg.ReturnPolicyID,
			Fulfillment: s.cfg.FulfillmentPolicyID,
		},
		MerchantLocation: s.cfg.MerchantLocationKey,
	})
	if err != nil {
		return "", err
	}

	created, err := s.inventory.CreateOffer(ctx, offer)
	if err != nil {
		return "", err
	}

	log.Info().Str("sku", p.sku).Str("offerId", created.OfferID).Msg("draft listing created")
	return created.OfferID, nil
}

// uploadPictures pushes every image to eBay Picture Services in parallel,
// preserving order.
func (s *Server) uploadPictures(ctx context.Context, sku string, images []vision.Image) ([]string, error) {
	urls := make([]string, len(images))
	g, ctx := errgroup.WithContext(ctx)
	for i := range images {
		g.Go(func() error {
			url, err := s.pictures.UploadPicture(ctx, images[i].Data, fmt.Sprintf("%s-%d.jpg", sku, i+1))
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (s *Server) record(rec *storage.ListingRecord) {
	if s.store == nil {
		return
	}
	if err := s.store.RecordListing(rec); err != nil {
		log.Warn().Err(err).Str("sku", rec.SKU).Msg("failed to record listing")
	}
}

// readUploadedImages pulls every file under the "image" field from a
// multipart form, validates and re-encodes each one.
func readUploadedImages(r *http.Request) ([]vision.Image, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, errors.New("no image file provided")
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return nil, errors.New("no image file provided")
	}

	images := make([]vision.Image, 0, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}

		processed, err := processImage(data)
		if err != nil {
			return nil, err
		}
		images = append(images, vision.Image{Data: processed, MIMEType: "image/jpeg"})
	}
	return images, nil
}

// statusForError maps the typed errors of the lower layers onto HTTP status
// codes.
func statusForError(err error) int {
	var (
		verr *ebay.ValidationError
		cerr *ebay.ConfigError
		gerr *ebay.GatewayError
		aerr *vision.AnalysisError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, category.ErrNoCategory):
		return http.StatusBadRequest
	case errors.As(err, &cerr):
		return http.StatusInternalServerError
	case errors.As(err, &aerr):
		return http.StatusInternalServerError
	case errors.As(err, &gerr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
