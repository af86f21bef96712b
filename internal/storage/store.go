// Package storage persists a log of created listings in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ListingRecord is one row of the listing log.
type ListingRecord struct {
	ID         int64
	SKU        string
	OfferID    string
	ListingID  string
	Title      string
	Price      float64
	CategoryID string
	Condition  string
	ImageURL   string
	CreatedAt  time.Time
}

// Store defines the interface for listing log persistence.
type Store interface {
	RecordListing(record *ListingRecord) error
	MarkPublished(sku, listingID string) error
	ListRecent(limit int) ([]ListingRecord, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based listing log.
// The dbPath is the path to the SQLite database file.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Configure SQLite with WAL mode and busy timeout for better concurrency
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS listings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sku TEXT NOT NULL UNIQUE,
		offer_id TEXT NOT NULL,
		listing_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		price REAL NOT NULL,
		category_id TEXT NOT NULL,
		condition TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create listings table: %w", err)
	}
	return nil
}

// RecordListing stores a created listing. Repeating a SKU replaces the row,
// matching the upsert semantics of the inventory item itself.
func (s *SQLiteStore) RecordListing(record *ListingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO listings (sku, offer_id, listing_id, title, price, category_id, condition, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sku) DO UPDATE SET
			offer_id = excluded.offer_id,
			listing_id = excluded.listing_id,
			title = excluded.title,
			price = excluded.price,
			category_id = excluded.category_id,
			condition = excluded.condition,
			image_url = excluded.image_url,
			created_at = excluded.created_at
	`, record.SKU, record.OfferID, record.ListingID, record.Title, record.Price,
		record.CategoryID, record.Condition, record.ImageURL, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

// MarkPublished records the live listing ID once an offer is published.
func (s *SQLiteStore) MarkPublished(sku, listingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE listings SET listing_id = ? WHERE sku = ?", listingID, sku)
	if err != nil {
		return fmt.Errorf("failed to mark listing published: %w", err)
	}
	return nil
}

// ListRecent returns the most recently created listings, newest first.
func (s *SQLiteStore) ListRecent(limit int) ([]ListingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, sku, offer_id, listing_id, title, price, category_id, condition, image_url, created_at
		FROM listings ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var records []ListingRecord
	for rows.Next() {
		var r ListingRecord
		if err := rows.Scan(&r.ID, &r.SKU, &r.OfferID, &r.ListingID, &r.Title, &r.Price,
			&r.CategoryID, &r.Condition, &r.ImageURL, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
