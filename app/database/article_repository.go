package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SQLArticleRepository struct {
	db *DB
}

var _ ArticleRepository = (*SQLArticleRepository)(nil)

func NewArticleRepository(db *DB) *SQLArticleRepository {
	return &SQLArticleRepository{db: db}
}

// IsUniqueViolation reports whether err is a unique constraint failure.
// The constraint on rss_guid is the authoritative dedup guard; callers
// treat this as "duplicate", not as a storage failure.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *SQLArticleRepository) ExistsByGUID(guid string) (bool, error) {
	var id string
	err := r.db.QueryRow(`SELECT id FROM articles WHERE rss_guid = ? LIMIT 1`, guid).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check guid: %w", err)
	}
	return true, nil
}

func (r *SQLArticleRepository) Insert(article NewArticle) (string, error) {
	id := uuid.NewString()
	extractionStatus := article.ExtractionStatus
	if extractionStatus == "" {
		extractionStatus = ExtractionSkipped
	}

	_, err := r.db.Exec(`
		INSERT INTO articles (
			id, title, slug, content, excerpt, featured_image, source_url,
			rss_guid, category_id, status, author, published_at,
			content_extraction_status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, article.Title, article.Slug, article.Content, article.Excerpt,
		article.FeaturedImage, article.SourceURL, article.RSSGUID,
		article.CategoryID, article.Status, article.Author,
		article.PublishedAt.UTC(), extractionStatus, time.Now().UTC())

	if err != nil {
		return "", fmt.Errorf("failed to insert article: %w", err)
	}

	return id, nil
}

const articleColumns = `
	a.id, a.title, a.slug, a.content, a.excerpt, a.featured_image,
	a.source_url, a.rss_guid, COALESCE(a.category_id, ''),
	COALESCE(c.name, ''), COALESCE(c.slug, ''),
	a.status, a.author, a.is_featured, a.published_at, a.created_at,
	a.view_count, a.like_count, a.comment_count,
	a.content_extraction_status, a.content_extracted_at, a.extraction_attempts`

func (r *SQLArticleRepository) scanArticle(row interface{ Scan(...any) error }) (*Article, error) {
	var a Article
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.FeaturedImage,
		&a.SourceURL, &a.RSSGUID, &a.CategoryID,
		&a.CategoryName, &a.CategorySlug,
		&a.Status, &a.Author, &a.IsFeatured, &a.PublishedAt, &a.CreatedAt,
		&a.ViewCount, &a.LikeCount, &a.CommentCount,
		&a.ContentExtractionStatus, &a.ContentExtractedAt, &a.ExtractionAttempts,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SQLArticleRepository) GetBySlug(slug string) (*Article, error) {
	row := r.db.QueryRow(`
		SELECT `+articleColumns+`
		FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id
		WHERE a.slug = ?
	`, slug)

	article, err := r.scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article by slug: %w", err)
	}
	return article, nil
}

// GetPublished returns published articles newest-first, optionally
// restricted to a category slug. This backs the RSS output endpoint.
func (r *SQLArticleRepository) GetPublished(categorySlug string, limit int) ([]Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id
		WHERE a.status = ?`
	args := []any{StatusPublished}

	if categorySlug != "" {
		query += ` AND c.slug = ?`
		args = append(args, categorySlug)
	}

	query += ` ORDER BY a.published_at DESC LIMIT ?`
	args = append(args, limit)

	return r.queryArticles(query, args...)
}

func (r *SQLArticleRepository) GetRecent(limit int) ([]Article, error) {
	return r.queryArticles(`
		SELECT `+articleColumns+`
		FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id
		ORDER BY a.created_at DESC LIMIT ?
	`, limit)
}

func (r *SQLArticleRepository) queryArticles(query string, args ...any) ([]Article, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		article, err := r.scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func (r *SQLArticleRepository) GetStats() (int, int, int, error) {
	var total, published, pending int
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(CASE WHEN status = ? THEN 1 END),
		       COUNT(CASE WHEN status = ? THEN 1 END)
		FROM articles
	`, StatusPublished, StatusPending).Scan(&total, &published, &pending)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get article stats: %w", err)
	}
	return total, published, pending, nil
}

func (r *SQLArticleRepository) UpdateStatus(id string, status string) error {
	result, err := r.db.Exec(`UPDATE articles SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update article status: %w", err)
	}
	return requireRow(result, id)
}

func (r *SQLArticleRepository) SetFeatured(id string, featured bool) error {
	result, err := r.db.Exec(`UPDATE articles SET is_featured = ? WHERE id = ?`, featured, id)
	if err != nil {
		return fmt.Errorf("failed to set featured flag: %w", err)
	}
	return requireRow(result, id)
}

func (r *SQLArticleRepository) IncrementViewCount(slug string) error {
	_, err := r.db.Exec(`UPDATE articles SET view_count = view_count + 1 WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}

func (r *SQLArticleRepository) GetArticlesForExtraction(author string, limit int) ([]ArticleForExtraction, error) {
	rows, err := r.db.Query(`
		SELECT id, source_url, extraction_attempts
		FROM articles
		WHERE content_extraction_status = ? AND author = ? AND source_url != ''
		ORDER BY created_at ASC
		LIMIT ?
	`, ExtractionPending, author, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles for extraction: %w", err)
	}
	defer rows.Close()

	var pending []ArticleForExtraction
	for rows.Next() {
		var a ArticleForExtraction
		if err := rows.Scan(&a.ID, &a.SourceURL, &a.Attempts); err != nil {
			return nil, fmt.Errorf("failed to scan extraction row: %w", err)
		}
		pending = append(pending, a)
	}

	return pending, rows.Err()
}

func (r *SQLArticleRepository) UpdateExtractedContent(id string, content string, extractedAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE articles
		SET content = ?, content_extraction_status = ?, content_extracted_at = ?,
		    extraction_attempts = extraction_attempts + 1
		WHERE id = ?
	`, content, ExtractionSuccess, extractedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to store extracted content: %w", err)
	}
	return nil
}

func (r *SQLArticleRepository) MarkExtractionFailed(id string, reason string) error {
	// Three attempts, then the article keeps its RSS description.
	_, err := r.db.Exec(`
		UPDATE articles
		SET extraction_attempts = extraction_attempts + 1,
		    content_extraction_status = CASE
		        WHEN extraction_attempts + 1 >= 3 THEN ?
		        ELSE content_extraction_status
		    END
		WHERE id = ?
	`, ExtractionFailed, id)
	if err != nil {
		return fmt.Errorf("failed to mark extraction failed: %w", err)
	}
	slog.Debug("Extraction attempt recorded as failed", "article_id", id, "reason", reason)
	return nil
}

func requireRow(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("article %s not found", id)
	}
	return nil
}
