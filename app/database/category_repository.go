package database

import (
	"database/sql"
	"fmt"
)

type SQLCategoryRepository struct {
	db *DB
}

var _ CategoryRepository = (*SQLCategoryRepository)(nil)

func NewCategoryRepository(db *DB) *SQLCategoryRepository {
	return &SQLCategoryRepository{db: db}
}

func (r *SQLCategoryRepository) GetAll() ([]Category, error) {
	rows, err := r.db.Query(`
		SELECT id, name, slug, is_active, created_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *SQLCategoryRepository) GetBySlug(slug string) (*Category, error) {
	var c Category
	err := r.db.QueryRow(`
		SELECT id, name, slug, is_active, created_at
		FROM categories
		WHERE slug = ?
	`, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}

	return &c, nil
}

func (r *SQLCategoryRepository) SlugIndex() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT slug, id FROM categories WHERE is_active = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category index: %w", err)
	}
	defer rows.Close()

	index := make(map[string]string)
	for rows.Next() {
		var slug, id string
		if err := rows.Scan(&slug, &id); err != nil {
			return nil, fmt.Errorf("failed to scan category index row: %w", err)
		}
		index[slug] = id
	}

	return index, rows.Err()
}
