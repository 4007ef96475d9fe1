package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SQLSourceRepository struct {
	db *DB
}

var _ SourceRepository = (*SQLSourceRepository)(nil)

func NewSourceRepository(db *DB) *SQLSourceRepository {
	return &SQLSourceRepository{db: db}
}

// Upsert registers a configured source, updating its URL and metadata
// when the configuration changed. Called once per source at boot.
func (r *SQLSourceRepository) Upsert(name, displayName, url, categorySlug string, active bool) (string, error) {
	existingID, err := r.getIDByName(name)
	if err != nil {
		return "", fmt.Errorf("failed to check existing source: %w", err)
	}

	if existingID != "" {
		_, err = r.db.Exec(`
			UPDATE feed_sources
			SET display_name = ?, url = ?, category_slug = ?, is_active = ?, updated_at = ?
			WHERE name = ?
		`, displayName, url, categorySlug, active, time.Now().UTC(), name)
		if err != nil {
			return "", fmt.Errorf("failed to update source: %w", err)
		}
		return existingID, nil
	}

	id := uuid.NewString()
	_, err = r.db.Exec(`
		INSERT INTO feed_sources (id, name, display_name, url, category_slug, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, name, displayName, url, categorySlug, active)
	if err != nil {
		return "", fmt.Errorf("failed to insert source: %w", err)
	}

	return id, nil
}

// UpdateLastFetched records the end of an ingestion pass over the
// source, regardless of whether any items were inserted.
func (r *SQLSourceRepository) UpdateLastFetched(name string, fetchedAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE feed_sources
		SET last_fetched_at = ?, updated_at = ?
		WHERE name = ?
	`, fetchedAt.UTC(), time.Now().UTC(), name)
	if err != nil {
		return fmt.Errorf("failed to update last fetched time: %w", err)
	}
	return nil
}

func (r *SQLSourceRepository) GetAll() ([]FeedSource, error) {
	rows, err := r.db.Query(`
		SELECT id, name, display_name, url, category_slug, is_active,
		       last_fetched_at, created_at, updated_at
		FROM feed_sources
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []FeedSource
	for rows.Next() {
		var s FeedSource
		err := rows.Scan(&s.ID, &s.Name, &s.DisplayName, &s.URL, &s.CategorySlug,
			&s.IsActive, &s.LastFetchedAt, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}

	return sources, rows.Err()
}

func (r *SQLSourceRepository) GetCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM feed_sources`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}

func (r *SQLSourceRepository) getIDByName(name string) (string, error) {
	var id string
	err := r.db.QueryRow(`SELECT id FROM feed_sources WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}
